package database

const projectColumns = `id, title, industry, results, timeline, budget, benefits, tech_stack, images, github_url, created_at, updated_at`

const tweakColumns = `id, title, description, category, project_name, time_spent, github_url, created_at`

const (
	insertProjectQuery = `
		INSERT INTO projects (title, industry, results, timeline, budget, benefits, tech_stack, images, github_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + projectColumns

	selectProjectQuery = `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE id = $1`

	listProjectsQuery = `
		SELECT ` + projectColumns + `
		FROM projects
		ORDER BY created_at DESC, id DESC`

	updateProjectQuery = `
		UPDATE projects
		SET title = $2, industry = $3, results = $4, timeline = $5, budget = $6,
			benefits = $7, tech_stack = $8, images = $9, github_url = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + projectColumns

	deleteProjectQuery = `
		DELETE FROM projects
		WHERE id = $1
		RETURNING images`
)

const (
	insertTweakQuery = `
		INSERT INTO tweaks (title, description, category, project_name, time_spent, github_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + tweakColumns

	selectTweakQuery = `
		SELECT ` + tweakColumns + `
		FROM tweaks
		WHERE id = $1`

	listTweaksQuery = `
		SELECT ` + tweakColumns + `
		FROM tweaks
		ORDER BY created_at DESC, id DESC`

	updateTweakQuery = `
		UPDATE tweaks
		SET title = $2, description = $3, category = $4, project_name = $5, time_spent = $6, github_url = $7
		WHERE id = $1
		RETURNING ` + tweakColumns

	deleteTweakQuery = `
		DELETE FROM tweaks
		WHERE id = $1`
)
