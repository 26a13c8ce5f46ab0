// AngelaMos | 2026
// handler.go

package content

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/house-of-bloom/internal/core"
)

type Handler struct {
	content Content
}

func NewHandler(c Content) *Handler {
	return &Handler{content: c}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/hero", h.GetHero)
	r.Get("/collections", h.ListCollections)
	r.Get("/care-guides", h.ListCareGuides)
	r.Get("/testimonials", h.ListTestimonials)
}

func (h *Handler) GetHero(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.content.Hero)
}

func (h *Handler) ListCollections(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.content.Collections)
}

func (h *Handler) ListCareGuides(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.content.CareGuides)
}

func (h *Handler) ListTestimonials(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.content.Testimonials)
}
