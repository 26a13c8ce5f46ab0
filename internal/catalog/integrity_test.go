// AngelaMos | 2026
// integrity_test.go

package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func plant(id int64, slug, categoryID string) Plant {
	return Plant{ID: id, Slug: slug, Name: slug, CategoryID: strPtr(categoryID), Tags: Tags{}}
}

func TestCheckIntegrityAcceptsCleanBatch(t *testing.T) {
	t.Parallel()

	plants, categories := Parse([]Row{
		{Handle: "boston-fern", Title: "Boston Fern", Type: "Ferns"},
		{Handle: "monstera", Title: "Monstera", Type: "Tropical"},
	})

	assert.NoError(t, CheckIntegrity(plants, categories))
}

func TestCheckIntegrityDuplicateSlug(t *testing.T) {
	t.Parallel()

	categories := []Category{{ID: "ferns", Title: "Ferns"}}
	plants := []Plant{
		plant(1, "boston-fern", "ferns"),
		plant(2, "maidenhair", "ferns"),
		plant(3, "boston-fern", "ferns"),
	}

	err := CheckIntegrity(plants, categories)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIntegrity))

	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	require.Len(t, integrityErr.Violations, 1)

	v := integrityErr.Violations[0]
	assert.Equal(t, ViolationDuplicateSlug, v.Kind)
	assert.Equal(t, "boston-fern", v.Key)
	assert.Equal(t, []int64{1, 3}, v.IDs)
	assert.Contains(t, err.Error(), "boston-fern")
}

func TestCheckIntegrityMalformedAndUnknown(t *testing.T) {
	t.Parallel()

	categories := []Category{
		{ID: "ferns"},
		{ID: "ferns"},
		{ID: "Bad Id"},
	}
	plants := []Plant{
		plant(1, "Not A Slug", "ferns"),
		plant(2, "cactus", "succulents"),
	}

	err := CheckIntegrity(plants, categories)

	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)

	kinds := make(map[string]int)
	for _, v := range integrityErr.Violations {
		kinds[v.Kind]++
	}

	assert.Equal(t, 2, kinds[ViolationMalformedSlug])
	assert.Equal(t, 1, kinds[ViolationDuplicateCategory])
	assert.Equal(t, 1, kinds[ViolationUnknownCategory])
}

func TestDisambiguateSlugs(t *testing.T) {
	t.Parallel()

	in := []Plant{
		plant(1, "fern", "ferns"),
		plant(2, "fern", "ferns"),
		plant(3, "fern-2", "ferns"),
		plant(4, "fern", "ferns"),
	}

	out := DisambiguateSlugs(in)

	got := make([]string, 0, len(out))
	for _, p := range out {
		got = append(got, p.Slug)
	}
	assert.Equal(t, []string{"fern", "fern-3", "fern-2", "fern-4"}, got)

	assert.Equal(t, "fern", in[1].Slug, "input must not be modified")
	assert.NoError(t, CheckIntegrity(out, []Category{{ID: "ferns"}}))
}
