// AngelaMos | 2026
// dto.go

package history

import (
	"time"
)

type CreateRequest struct {
	Path     string         `json:"path"     validate:"required,max=2048"`
	Referrer *string        `json:"referrer" validate:"omitempty,max=2048"`
	Metadata map[string]any `json:"metadata"`
}

type EntryResponse struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Path      string         `json:"path"`
	Referrer  *string        `json:"referrer"`
	Metadata  map[string]any `json:"metadata"`
	Timestamp time.Time      `json:"timestamp"`
}

func ToEntryResponse(e *Entry) EntryResponse {
	return EntryResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Path:      e.Path,
		Referrer:  e.Referrer,
		Metadata:  e.Metadata,
		Timestamp: e.CreatedAt,
	}
}
