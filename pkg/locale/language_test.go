package locale

import (
	"testing"

	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		code      string
		want      Language
		wantError bool
	}{
		{code: "en", want: English},
		{code: "es", want: Spanish},
		{code: "ES", want: Spanish},
		{code: " en ", want: English},
		{code: "es-MX", want: Spanish},
		{code: "en-GB", want: English},
		{code: "fr", wantError: true},
		{code: "", wantError: true},
		{code: "not a tag", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, err := Parse(tt.code)
			if tt.wantError {
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("Expected ConfigError, got %v", err)
				}
				if cfgErr.Value != tt.code {
					t.Errorf("Expected offending value %q, got %q", tt.code, cfgErr.Value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestHeadings(t *testing.T) {
	en, err := English.Headings()
	if err != nil {
		t.Fatalf("Expected English headings, got %v", err)
	}
	if en.Summary != "Professional Summary" || en.Skills != "Technical Skills" {
		t.Errorf("Unexpected English headings: %+v", en)
	}

	es, err := Spanish.Headings()
	if err != nil {
		t.Fatalf("Expected Spanish headings, got %v", err)
	}
	if es.Experience != "Experiencia Profesional" || es.Skills != "Habilidades Técnicas" {
		t.Errorf("Unexpected Spanish headings: %+v", es)
	}

	_, err = Invalid.Headings()
	if err == nil {
		t.Error("Expected error for invalid language, got nil")
	}
}

func TestUpper(t *testing.T) {
	if got := Spanish.Upper("Educación"); got != "EDUCACIÓN" {
		t.Errorf("Expected EDUCACIÓN, got %s", got)
	}
	if got := English.Upper("Jane Doe"); got != "JANE DOE" {
		t.Errorf("Expected JANE DOE, got %s", got)
	}
}

func TestValid(t *testing.T) {
	if !English.Valid() || !Spanish.Valid() {
		t.Error("Expected English and Spanish to be valid")
	}
	if Invalid.Valid() || Language(42).Valid() {
		t.Error("Expected out-of-range languages to be invalid")
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		lang Language
		want string
	}{
		{English, "English"},
		{Spanish, "Spanish"},
		{Invalid, "invalid"},
	}

	for _, tt := range tests {
		if got := tt.lang.Name(); got != tt.want {
			t.Errorf("Name() of %d = %s, want %s", int(tt.lang), got, tt.want)
		}
	}
}
