// AngelaMos | 2026
// entity.go

package history

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Entry struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Path      string    `db:"path"`
	Referrer  *string   `db:"referrer"`
	Metadata  Metadata  `db:"metadata"`
	CreatedAt time.Time `db:"created_at"`
}

// Metadata is free-form client context stored as JSONB. A nil map is NULL.
type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return string(b), nil
}

func (m *Metadata) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan metadata: unsupported type %T", src)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan metadata: %w", err)
	}
	*m = out
	return nil
}
