// AngelaMos | 2026
// entity.go

package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Category is rebuilt in full on every sync and never edited in place.
type Category struct {
	ID           string `db:"id"            json:"id"`
	Title        string `db:"title"         json:"title"`
	Description  string `db:"description"   json:"description"`
	Image        string `db:"image"         json:"image"`
	ProductCount int    `db:"product_count" json:"product_count"`
}

// Plant IDs are source row ordinals and are only stable within one sync.
type Plant struct {
	ID              int64   `db:"id"               json:"id"`
	Slug            string  `db:"slug"             json:"slug"`
	Handle          string  `db:"handle"           json:"handle"`
	Name            string  `db:"name"             json:"name"`
	Description     string  `db:"description"      json:"description"`
	Category        string  `db:"category"         json:"category"`
	CategoryID      *string `db:"category_id"      json:"category_id"`
	Type            string  `db:"type"             json:"type"`
	ProductCategory string  `db:"product_category" json:"product_category"`
	Tags            Tags    `db:"tags"             json:"tags"`
	Price           string  `db:"price"            json:"price"`
	Inventory       int     `db:"inventory"        json:"inventory"`
	Image           string  `db:"image"            json:"image"`
	Vendor          string  `db:"vendor"           json:"vendor"`
	Status          string  `db:"status"           json:"status"`
}

// Tags is stored as a JSONB array and keeps source order.
type Tags []string

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func (t *Tags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan tags: unsupported type %T", src)
	}

	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return fmt.Errorf("scan tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	*t = tags
	return nil
}
