// AngelaMos | 2026
// service.go

package history

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record appends one entry for the user. Entries are never updated.
func (s *Service) Record(
	ctx context.Context,
	userID int64,
	req CreateRequest,
) (*Entry, error) {
	entry := &Entry{
		UserID:   userID,
		Path:     req.Path,
		Referrer: req.Referrer,
		Metadata: req.Metadata,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
