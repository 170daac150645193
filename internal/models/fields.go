package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/darkClaw921/main-site-templats/internal/codec"
)

// Results is an ordered list of outcomes stored as a JSON array.
type Results []string

// TechStack maps a category name to its technologies, stored as a JSON object.
type TechStack map[string]string

// Images is an ordered list of image paths stored as a JSON array, or NULL when empty.
type Images []string

func (r Results) Value() (driver.Value, error) {
	return codec.EncodeList(r), nil
}

func (r *Results) Scan(src any) error {
	text, err := columnText(src)
	if err != nil {
		return err
	}
	*r = codec.DecodeList(text)
	return nil
}

func (t TechStack) Value() (driver.Value, error) {
	return codec.EncodeMap(t), nil
}

func (t *TechStack) Scan(src any) error {
	text, err := columnText(src)
	if err != nil {
		return err
	}
	*t = codec.DecodeMap(text)
	return nil
}

func (im Images) Value() (driver.Value, error) {
	v := codec.EncodeOptionalList(im)
	if !v.Valid {
		return nil, nil
	}
	return v.String, nil
}

func (im *Images) Scan(src any) error {
	text, err := columnText(src)
	if err != nil {
		return err
	}
	*im = codec.DecodeList(text)
	return nil
}

func columnText(src any) (string, error) {
	switch v := src.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported column type %T", src)
	}
}
