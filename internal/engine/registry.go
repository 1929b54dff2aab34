package engine

import (
	"fmt"
	"html/template"
	"io"
	"sync"

	"lpmanager/internal/models"
)

// Renderer writes a complete HTML document for one section view.
type Renderer func(w io.Writer, v *View) error

// Registry maps section types to their renderers. Types without an entry
// use the default renderer when one is set.
type Registry struct {
	mu        sync.RWMutex
	renderers map[models.SectionType]Renderer
	fallback  Renderer
}

// NewRegistry creates an empty renderer registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[models.SectionType]Renderer)}
}

// Register associates a renderer with a section type, replacing any
// previous one.
func (r *Registry) Register(st models.SectionType, renderer Renderer) error {
	if st == "" {
		return fmt.Errorf("section type is empty")
	}
	if renderer == nil {
		return fmt.Errorf("renderer is nil for type %s", st)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[st] = renderer
	return nil
}

// MustRegister registers the renderer and panics if registration fails.
func (r *Registry) MustRegister(st models.SectionType, renderer Renderer) {
	if err := r.Register(st, renderer); err != nil {
		panic(err)
	}
}

// Get retrieves the renderer for a section type if one exists.
func (r *Registry) Get(st models.SectionType) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[st]
	return renderer, ok
}

// SetDefault sets the renderer used for section types without their own.
func (r *Registry) SetDefault(renderer Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = renderer
}

// Lookup returns the renderer for a section type, or the default renderer
// when the type has none.
func (r *Registry) Lookup(st models.SectionType) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if renderer, ok := r.renderers[st]; ok {
		return renderer, true
	}
	return r.fallback, r.fallback != nil
}

// templateRenderer executes one named template of the embedded set.
func templateRenderer(set *template.Template, name string) Renderer {
	return func(w io.Writer, v *View) error {
		return set.ExecuteTemplate(w, name, v)
	}
}

// registerDefaults wires the built-in layouts. Section types without a
// dedicated layout, including unknown ones, share the generic one.
func registerDefaults(r *Registry, set *template.Template) {
	r.MustRegister(models.SectionHero, templateRenderer(set, "hero"))
	r.MustRegister(models.SectionFeatures, templateRenderer(set, "features"))
	r.MustRegister(models.SectionTestimonial, templateRenderer(set, "testimonials"))
	r.MustRegister(models.SectionHowItWorks, templateRenderer(set, "how_it_works"))
	r.MustRegister(models.SectionSocialProof, templateRenderer(set, "social_proof"))
	r.MustRegister(models.SectionFAQ, templateRenderer(set, "faq"))

	generic := templateRenderer(set, "generic")
	for _, st := range []models.SectionType{models.SectionHeader, models.SectionTrouble, models.SectionPricing, models.SectionCTA} {
		r.MustRegister(st, generic)
	}
	r.SetDefault(generic)
}
