// AngelaMos | 2026
// integrity.go

package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/house-of-bloom/internal/slug"
)

// ErrIntegrity matches every *IntegrityError.
var ErrIntegrity = errors.New("catalog integrity violation")

const (
	ViolationDuplicateSlug     = "duplicate_slug"
	ViolationDuplicateCategory = "duplicate_category"
	ViolationMalformedSlug     = "malformed_slug"
	ViolationUnknownCategory   = "unknown_category"
)

// DuplicatePolicy decides what Sync does with plants that share a slug.
type DuplicatePolicy string

const (
	// RejectDuplicates fails the whole batch with an *IntegrityError.
	RejectDuplicates DuplicatePolicy = "reject"
	// SuffixDuplicates renames later occurrences to slug-2, slug-3, ... in
	// row order.
	SuffixDuplicates DuplicatePolicy = "suffix"
)

type Violation struct {
	Kind string
	Key  string
	IDs  []int64
}

type IntegrityError struct {
	Violations []Violation
}

func (e *IntegrityError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if len(v.IDs) > 0 {
			parts = append(parts, fmt.Sprintf("%s %q (rows %v)", v.Kind, v.Key, v.IDs))
		} else {
			parts = append(parts, fmt.Sprintf("%s %q", v.Kind, v.Key))
		}
	}
	return fmt.Sprintf("%s: %s", ErrIntegrity, strings.Join(parts, "; "))
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// CheckIntegrity validates a parsed batch before it touches storage. It
// returns nil or an *IntegrityError listing every violation found.
func CheckIntegrity(plants []Plant, categories []Category) error {
	var violations []Violation

	categoryIDs := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		if !slug.Valid(c.ID) {
			violations = append(violations, Violation{Kind: ViolationMalformedSlug, Key: c.ID})
		}
		if _, dup := categoryIDs[c.ID]; dup {
			violations = append(violations, Violation{Kind: ViolationDuplicateCategory, Key: c.ID})
		}
		categoryIDs[c.ID] = struct{}{}
	}

	bySlug := make(map[string][]int64, len(plants))
	var order []string
	for _, p := range plants {
		if !slug.Valid(p.Slug) {
			violations = append(violations, Violation{
				Kind: ViolationMalformedSlug,
				Key:  p.Slug,
				IDs:  []int64{p.ID},
			})
		}

		if p.CategoryID != nil {
			if _, ok := categoryIDs[*p.CategoryID]; !ok {
				violations = append(violations, Violation{
					Kind: ViolationUnknownCategory,
					Key:  *p.CategoryID,
					IDs:  []int64{p.ID},
				})
			}
		}

		if _, seen := bySlug[p.Slug]; !seen {
			order = append(order, p.Slug)
		}
		bySlug[p.Slug] = append(bySlug[p.Slug], p.ID)
	}

	for _, s := range order {
		if ids := bySlug[s]; len(ids) > 1 {
			violations = append(violations, Violation{
				Kind: ViolationDuplicateSlug,
				Key:  s,
				IDs:  ids,
			})
		}
	}

	if len(violations) == 0 {
		return nil
	}
	return &IntegrityError{Violations: violations}
}

// DisambiguateSlugs returns a copy of plants in which every repeated slug
// after the first gets the lowest free numeric suffix. The result depends
// only on row order.
func DisambiguateSlugs(plants []Plant) []Plant {
	out := make([]Plant, len(plants))
	copy(out, plants)

	taken := make(map[string]struct{}, len(out))
	for _, p := range out {
		taken[p.Slug] = struct{}{}
	}

	seen := make(map[string]struct{}, len(out))
	for i := range out {
		base := out[i].Slug
		if _, dup := seen[base]; !dup {
			seen[base] = struct{}{}
			continue
		}

		for n := 2; ; n++ {
			candidate := fmt.Sprintf("%s-%d", base, n)
			if _, used := taken[candidate]; !used {
				out[i].Slug = candidate
				taken[candidate] = struct{}{}
				seen[candidate] = struct{}{}
				break
			}
		}
	}

	return out
}
