package persona

import (
	"testing"

	"github.com/vaanihq/vaani/pkg/langdetect"
)

func TestRegistryCoversAllLanguages(t *testing.T) {
	r := NewRegistry()
	for _, lang := range []langdetect.Language{langdetect.English, langdetect.Hindi, langdetect.Marathi} {
		p := r.Lookup(lang)
		if p.Language != lang {
			t.Fatalf("Lookup(%s) returned persona for %s", lang, p.Language)
		}
		if p.Instructions == "" {
			t.Fatalf("Lookup(%s) returned empty instructions", lang)
		}
	}
}

func TestLookupUnknownFallsBack(t *testing.T) {
	r := NewRegistry()
	p := r.Lookup(langdetect.Language("klingon"))
	if p.Language != langdetect.Default {
		t.Fatalf("unknown language should fall back to %s, got %s", langdetect.Default, p.Language)
	}
}

func TestRegisterRejectsEmptyInstructions(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Persona{Language: langdetect.Hindi, Instructions: "  "}); err == nil {
		t.Fatalf("expected error for empty instructions")
	}
	// The existing persona must be untouched.
	if r.Lookup(langdetect.Hindi).Instructions == "  " {
		t.Fatalf("failed register must not replace the persona")
	}
}

func TestRegisterOverride(t *testing.T) {
	r := NewRegistry()
	custom := "You are a terse assistant."
	if err := r.Register(Persona{Language: langdetect.English, Instructions: custom}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if got := r.Lookup(langdetect.English).Instructions; got != custom {
		t.Fatalf("expected override to take effect, got %q", got)
	}
}
