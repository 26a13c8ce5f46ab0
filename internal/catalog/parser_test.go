// AngelaMos | 2026
// parser_test.go

package catalog

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRows(t *testing.T) {
	t.Parallel()

	input := "\ufeffTitle,Handle,Unused,Variant Price\n" +
		"Boston Fern,boston-fern,x,12.50\n" +
		"Short Row\n"

	rows, err := ReadRows(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Boston Fern", rows[0].Title)
	assert.Equal(t, "boston-fern", rows[0].Handle)
	assert.Equal(t, "12.50", rows[0].VariantPrice)

	assert.Equal(t, "Short Row", rows[1].Title)
	assert.Empty(t, rows[1].Handle)
}

func TestReadRowsEmptyInput(t *testing.T) {
	t.Parallel()

	rows, err := ReadRows(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadRowsRejectsBareQuote(t *testing.T) {
	t.Parallel()

	_, err := ReadRows(strings.NewReader("Handle,Title\nab\"c,\"x\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, csv.ErrBareQuote)
}

func TestParseSameExportTwice(t *testing.T) {
	t.Parallel()

	export := "Handle,Title,Type,Product Category,Tags,Variant Price,Image Src\n" +
		"boston-fern,Boston Fern,Ferns,,humid,$12.50,fern.jpg\n" +
		"snake-plant,Snake Plant,,Home > Succulents,\"easy, low light\",9,\n" +
		",Maidenhair Fern,Ferns,,,\"1.234,5\",\n"

	parse := func() ([]Plant, []Category) {
		rows, err := ReadRows(strings.NewReader(export))
		require.NoError(t, err)
		return Parse(rows)
	}

	plants1, categories1 := parse()
	plants2, categories2 := parse()

	require.Len(t, plants1, 3)
	require.Len(t, categories1, 2)
	assert.Equal(t, plants1, plants2)
	assert.Equal(t, categories1, categories2)
}

func TestParseLeafCategory(t *testing.T) {
	t.Parallel()

	plants, categories := Parse([]Row{{
		Handle:          "boston-fern",
		Title:           "Boston Fern",
		ProductCategory: "Indoor > Tropical > Ferns",
		Type:            "Plant",
	}})

	require.Len(t, plants, 1)
	require.Len(t, categories, 1)

	assert.Equal(t, "Ferns", plants[0].Category)
	require.NotNil(t, plants[0].CategoryID)
	assert.Equal(t, "ferns", *plants[0].CategoryID)
	assert.Equal(t, "ferns", categories[0].ID)
	assert.Equal(t, "Ferns", categories[0].Title)
}

func TestParseCategoryFallbacks(t *testing.T) {
	t.Parallel()

	plants, categories := Parse([]Row{
		{Title: "Snake Plant", Type: "Succulent"},
		{Title: "Mystery"},
	})

	assert.Equal(t, "Succulent", plants[0].Category)
	assert.Equal(t, "succulent", *plants[0].CategoryID)

	assert.Equal(t, DefaultCategory, plants[1].Category)
	assert.Equal(t, DefaultCategory, *plants[1].CategoryID)

	require.Len(t, categories, 2)
}

func TestParseMergesCategories(t *testing.T) {
	t.Parallel()

	plants, categories := Parse([]Row{
		{Title: "Boston Fern", Type: "Ferns", ImageSrc: "fern.jpg"},
		{Title: "Monstera", Type: "Tropical"},
		{Title: "Maidenhair Fern", Type: "Ferns", ImageSrc: "maiden.jpg"},
	})

	require.Len(t, plants, 3)
	require.Len(t, categories, 2)

	assert.Equal(t, "ferns", categories[0].ID)
	assert.Equal(t, 2, categories[0].ProductCount)
	assert.Equal(t, "fern.jpg", categories[0].Image)
	assert.Equal(t, "Ferns plants curated for House of Bloom.", categories[0].Description)

	assert.Equal(t, "tropical", categories[1].ID)
	assert.Equal(t, 1, categories[1].ProductCount)
}

func TestParseAssignsRowOrdinals(t *testing.T) {
	t.Parallel()

	plants, _ := Parse([]Row{{Title: "A"}, {Title: "B"}, {Title: "C"}})

	for i, p := range plants {
		assert.Equal(t, int64(i+1), p.ID)
	}
}

func TestParseSlugSource(t *testing.T) {
	t.Parallel()

	plants, _ := Parse([]Row{
		{Handle: "  Fiddle Leaf  ", Title: "Ignored"},
		{Handle: "   ", Title: "Rubber Plant"},
		{},
	})

	assert.Equal(t, "fiddle-leaf", plants[0].Slug)
	assert.Equal(t, "item", plants[1].Slug, "a blank handle is not replaced by the title")
	assert.Equal(t, "item", plants[2].Slug)
}

func TestCleanPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"25,00", "25.00"},
		{"$19.99", "19.99"},
		{" 1,299.00 ", "1,299.00"},
		{"", ""},
		{"free", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CleanPrice(tt.in))
		})
	}
}

func TestParseInventory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
	}{
		{"12", 12},
		{" 7 ", 7},
		{"", 0},
		{"abc", 0},
		{"-3", 0},
		{"4.5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, parseInventory(tt.in))
		})
	}
}

func TestParseTagsAndImage(t *testing.T) {
	t.Parallel()

	plants, _ := Parse([]Row{
		{Title: "A", Tags: " pet-safe, low light ,,", VariantImage: "variant.jpg"},
		{Title: "B", ImageSrc: "  ", VariantImage: "v.jpg"},
		{Title: "C"},
		{Title: "D", ImageSrc: " src.jpg ", VariantImage: "v.jpg"},
	})

	assert.Equal(t, Tags{"pet-safe", "low light"}, plants[0].Tags)
	assert.Equal(t, "variant.jpg", plants[0].Image)
	assert.Empty(t, plants[1].Image, "a blank image src still takes precedence")
	assert.Equal(t, "src.jpg", plants[3].Image)

	assert.NotNil(t, plants[2].Tags)
	assert.Empty(t, plants[2].Tags)
	assert.Empty(t, plants[2].Image)
}

func TestTagsValueAndScan(t *testing.T) {
	t.Parallel()

	v, err := Tags(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var tags Tags
	require.NoError(t, tags.Scan([]byte(`["fern","humid"]`)))
	assert.Equal(t, Tags{"fern", "humid"}, tags)

	require.NoError(t, tags.Scan(nil))
	assert.Equal(t, Tags{}, tags)

	assert.Error(t, tags.Scan(42))
}
