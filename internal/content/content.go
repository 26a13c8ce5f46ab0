// AngelaMos | 2026
// content.go

package content

type Hero struct {
	Title   string `json:"title"`
	Tagline string `json:"tagline"`
	Summary string `json:"summary"`
	Image   string `json:"image"`
	Badge   string `json:"badge"`
}

type Collection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type CareGuide struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

type Testimonial struct {
	Quote string `json:"quote"`
	Name  string `json:"name"`
}

// Content is the editorial copy served alongside the catalog.
type Content struct {
	Hero         Hero
	Collections  []Collection
	CareGuides   []CareGuide
	Testimonials []Testimonial
}

func Default() Content {
	return Content{
		Hero: Hero{
			Title:   "House of Bloom",
			Tagline: "Curated plants for the modern home",
			Summary: "Minimal silhouettes, refined textures, and plant care that feels personal.",
			Image:   "https://images.unsplash.com/photo-1493666438817-866a91353ca9?auto=format&fit=crop&w=1200&q=80",
			Badge:   "New season drop",
		},
		Collections: []Collection{
			{
				ID:          "statement-greens",
				Title:       "Statement Greens",
				Description: "Architectural plants for living rooms and lobbies.",
				Image:       "https://images.unsplash.com/photo-1501004318641-b39e6451bec6?auto=format&fit=crop&w=900&q=80",
			},
			{
				ID:          "petite-corners",
				Title:       "Petite Corners",
				Description: "Low-light companions for desks and shelves.",
				Image:       "https://images.unsplash.com/photo-1519710164239-da123dc03ef4?auto=format&fit=crop&w=900&q=80",
			},
			{
				ID:          "outdoor-reserve",
				Title:       "Outdoor Reserve",
				Description: "Planters crafted for terraces and balconies.",
				Image:       "https://images.unsplash.com/photo-1470246973918-29a93221c455?auto=format&fit=crop&w=900&q=80",
			},
		},
		CareGuides: []CareGuide{
			{Title: "Precise watering", Detail: "Light meters and gentle reminders keep you on track for every species."},
			{Title: "Artisan planters", Detail: "Ceramic, terracotta, and matte lacquer vessels from local makers."},
			{Title: "Delivery & setup", Detail: "Two-hour windows, gentle handling, and styling advice for your space."},
		},
		Testimonials: []Testimonial{
			{
				Quote: "House of Bloom feels like walking into a gallery. Every plant arrives wrapped with a care story.",
				Name:  "Yasmin, Mumbai",
			},
			{
				Quote: "The care guides are the best part. No guesswork, just calm instructions.",
				Name:  "Kabir, Pune",
			},
		},
	}
}
