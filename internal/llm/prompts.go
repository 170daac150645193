package llm

const projectSystemPrompt = "You help write portfolio project descriptions. Always answer with valid JSON only."

const projectPromptTemplate = `You help write case studies for a software company portfolio. Using the project or repository description below, produce a structured project description.

Project description:
%s

Return a JSON object with these fields:
{
    "title": "Project name",
    "industry": "Industry of the project",
    "results": ["Result 1", "Result 2", "Result 3"],
    "timeline": "Project duration (for example, '3 months')",
    "budget": "Project budget (for example, '$15,000')",
    "benefits": "Benefit for the client (2-3 sentences)",
    "tech_stack": {
        "Frontend": "frontend technologies",
        "Backend": "backend technologies",
        "Database": "database technologies"
    }
}

Requirements:
- The title is short and clear
- The industry is specific (for example, "E-commerce", "Fintech", "Education")
- Results are concrete and measurable (3-5 items)
- Timeline and budget are realistic
- Benefits describe concrete advantages for the client
- The tech stack matches the description
- Prefer the categories Frontend, Backend, Database; add others only when needed
- Write in the same language as the description
- Return ONLY valid JSON with no extra text`

const tweakSystemPrompt = "You help write descriptions of small improvements. Always answer with valid JSON only."

const tweakPromptTemplate = `You help describe small pieces of completed work for a software company portfolio. Using the description below, produce a structured description of the work.

Description:
%s

Return a JSON object with these fields:
{
    "title": "Short title of the work (up to 80 characters)",
    "description": "What was done and what it changed (2-4 sentences)",
    "category": "work category",
    "project_name": "Project name if it is clear from the context, otherwise null",
    "time_spent": "Approximate time spent (for example, '2 hours', '1 day')"
}

Allowed values for category:
- "bug_fix": a bug fix
- "ui": a UI improvement
- "optimization": a performance optimization
- "feature": a small new feature
- "refactoring": code refactoring
- "other": anything else

Requirements:
- The title is specific and names the essence of the work
- The description explains what exactly was done and its effect
- The category matches the kind of work
- The time is realistic for a small task
- Write in the same language as the description
- Return ONLY valid JSON with no extra text`
