// AngelaMos | 2026
// parser.go

package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carterperez-dev/house-of-bloom/internal/slug"
)

// DefaultCategory is used for rows that name neither a product category nor
// a type.
const DefaultCategory = "general"

const categorySeparator = ">"

// Row is one line of the vendor export. Columns absent from the export are
// left empty.
type Row struct {
	Handle              string
	Title               string
	BodyHTML            string
	ProductCategory     string
	Type                string
	Tags                string
	VariantPrice        string
	VariantInventoryQty string
	ImageSrc            string
	VariantImage        string
	Vendor              string
	Status              string
}

var columns = map[string]func(*Row) *string{
	"Handle":                func(r *Row) *string { return &r.Handle },
	"Title":                 func(r *Row) *string { return &r.Title },
	"Body (HTML)":           func(r *Row) *string { return &r.BodyHTML },
	"Product Category":      func(r *Row) *string { return &r.ProductCategory },
	"Type":                  func(r *Row) *string { return &r.Type },
	"Tags":                  func(r *Row) *string { return &r.Tags },
	"Variant Price":         func(r *Row) *string { return &r.VariantPrice },
	"Variant Inventory Qty": func(r *Row) *string { return &r.VariantInventoryQty },
	"Image Src":             func(r *Row) *string { return &r.ImageSrc },
	"Variant Image":         func(r *Row) *string { return &r.VariantImage },
	"Vendor":                func(r *Row) *string { return &r.Vendor },
	"Status":                func(r *Row) *string { return &r.Status },
}

// ReadRows decodes a CSV export whose first line is a header. Columns are
// matched by header name, so order and extra columns do not matter.
func ReadRows(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	fields := make([]func(*Row) *string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		fields[i] = columns[strings.TrimSpace(name)]
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}

		var row Row
		for i, value := range record {
			if i < len(fields) && fields[i] != nil {
				*fields[i](&row) = value
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Parse normalizes rows into plants and the categories derived from them.
// It never fails: malformed values degrade to their zero defaults.
func Parse(rows []Row) ([]Plant, []Category) {
	plants := make([]Plant, 0, len(rows))
	categories := make([]Category, 0)
	index := make(map[string]int)

	for i, row := range rows {
		plant := parseRow(int64(i+1), row)
		plants = append(plants, plant)

		key := *plant.CategoryID
		pos, seen := index[key]
		if !seen {
			categories = append(categories, Category{
				ID:          key,
				Title:       plant.Category,
				Description: fmt.Sprintf("%s plants curated for House of Bloom.", plant.Category),
				Image:       plant.Image,
			})
			pos = len(categories) - 1
			index[key] = pos
		}
		categories[pos].ProductCount++
	}

	return plants, categories
}

func parseRow(id int64, row Row) Plant {
	name := categoryName(row)
	categoryID := slug.Make(name)

	// A whitespace-only handle still wins over the title and slugs to "item".
	slugSource := row.Handle
	if slugSource == "" {
		slugSource = row.Title
	}

	return Plant{
		ID:              id,
		Slug:            slug.Make(slugSource),
		Handle:          row.Handle,
		Name:            row.Title,
		Description:     row.BodyHTML,
		Category:        name,
		CategoryID:      &categoryID,
		Type:            row.Type,
		ProductCategory: row.ProductCategory,
		Tags:            splitTags(row.Tags),
		Price:           CleanPrice(row.VariantPrice),
		Inventory:       parseInventory(row.VariantInventoryQty),
		Image:           imageOf(row),
		Vendor:          row.Vendor,
		Status:          row.Status,
	}
}

// categoryName takes the leaf of a "A > B > C" product category path and
// falls back to the row type.
func categoryName(row Row) string {
	var name string
	if row.ProductCategory != "" {
		segments := strings.Split(row.ProductCategory, categorySeparator)
		name = strings.TrimSpace(segments[len(segments)-1])
	} else {
		name = strings.TrimSpace(row.Type)
	}

	if name == "" {
		return DefaultCategory
	}
	return name
}

// CleanPrice keeps digits, '.' and ','. A value with commas but no dot is
// read as comma-decimal. Anything else passes through unvalidated.
func CleanPrice(value string) string {
	var b strings.Builder
	for _, ch := range strings.TrimSpace(value) {
		if (ch >= '0' && ch <= '9') || ch == '.' || ch == ',' {
			b.WriteRune(ch)
		}
	}

	cleaned := b.String()
	if strings.Contains(cleaned, ",") && !strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	return cleaned
}

func parseInventory(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func splitTags(value string) Tags {
	tags := Tags{}
	for _, piece := range strings.Split(value, ",") {
		if tag := strings.TrimSpace(piece); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// imageOf prefers Image Src whenever the cell is present, even if it is
// only whitespace, and trims the chosen value.
func imageOf(row Row) string {
	if row.ImageSrc != "" {
		return strings.TrimSpace(row.ImageSrc)
	}
	return strings.TrimSpace(row.VariantImage)
}
