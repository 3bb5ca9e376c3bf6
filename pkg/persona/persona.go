// Package persona maps a language tag to the instruction payload that
// configures the speech backend's behavior for subsequent responses.
package persona

import (
	"fmt"
	"strings"

	"github.com/vaanihq/vaani/pkg/langdetect"
)

// Persona is one instruction payload.
type Persona struct {
	Language     langdetect.Language
	Instructions string
}

// Registry resolves personas by language. Adding a language is a data
// change: register it here, add its indicators to langdetect.
type Registry struct {
	byLanguage map[langdetect.Language]Persona
	fallback   langdetect.Language
}

// NewRegistry builds a registry with the built-in instruction texts.
func NewRegistry() *Registry {
	r := &Registry{
		byLanguage: make(map[langdetect.Language]Persona),
		fallback:   langdetect.Default,
	}
	r.Register(Persona{Language: langdetect.English, Instructions: instructionsEnglish})
	r.Register(Persona{Language: langdetect.Hindi, Instructions: instructionsHindi})
	r.Register(Persona{Language: langdetect.Marathi, Instructions: instructionsMarathi})
	return r
}

// Register adds or replaces the persona for its language. Empty
// instructions are rejected so Lookup can never hand out a blank payload.
func (r *Registry) Register(p Persona) error {
	if strings.TrimSpace(p.Instructions) == "" {
		return fmt.Errorf("persona %s: empty instructions", p.Language)
	}
	r.byLanguage[p.Language] = p
	return nil
}

// Lookup returns the persona for lang, falling back to the default
// language for unknown tags.
func (r *Registry) Lookup(lang langdetect.Language) Persona {
	if p, ok := r.byLanguage[lang]; ok {
		return p
	}
	return r.byLanguage[r.fallback]
}

// Languages lists the registered language tags.
func (r *Registry) Languages() []langdetect.Language {
	out := make([]langdetect.Language, 0, len(r.byLanguage))
	for lang := range r.byLanguage {
		out = append(out, lang)
	}
	return out
}
