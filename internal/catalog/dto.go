// AngelaMos | 2026
// dto.go

package catalog

type ListParams struct {
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	CategoryID string `json:"category_id"`
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type PlantResponse struct {
	ID              int64    `json:"id"`
	Slug            string   `json:"slug"`
	Handle          string   `json:"handle"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	CategoryID      *string  `json:"category_id"`
	Type            string   `json:"type"`
	ProductCategory string   `json:"product_category"`
	Tags            []string `json:"tags"`
	Price           string   `json:"price"`
	Inventory       int      `json:"inventory"`
	Image           string   `json:"image"`
	Vendor          string   `json:"vendor"`
	Status          string   `json:"status"`
}

type CategoryResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	ProductCount int    `json:"product_count"`
}

type SyncResult struct {
	Plants     int `json:"plants"`
	Categories int `json:"categories"`
}

type Stats struct {
	Plants     int `json:"plants"`
	Categories int `json:"categories"`
}

func ToPlantResponse(p *Plant) PlantResponse {
	tags := []string(p.Tags)
	if tags == nil {
		tags = []string{}
	}

	return PlantResponse{
		ID:              p.ID,
		Slug:            p.Slug,
		Handle:          p.Handle,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		CategoryID:      p.CategoryID,
		Type:            p.Type,
		ProductCategory: p.ProductCategory,
		Tags:            tags,
		Price:           p.Price,
		Inventory:       p.Inventory,
		Image:           p.Image,
		Vendor:          p.Vendor,
		Status:          p.Status,
	}
}

func ToPlantResponseList(plants []Plant) []PlantResponse {
	responses := make([]PlantResponse, 0, len(plants))
	for i := range plants {
		responses = append(responses, ToPlantResponse(&plants[i]))
	}
	return responses
}

func ToCategoryResponseList(categories []Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, CategoryResponse(c))
	}
	return responses
}
