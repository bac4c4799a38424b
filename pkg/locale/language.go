package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Language selects the section-heading table. The zero value is invalid.
type Language int

const (
	// Invalid is the zero Language; rendering with it is a ConfigError.
	Invalid Language = iota
	// English headings.
	English
	// Spanish headings.
	Spanish
)

// ConfigError reports an unrecognized configuration value.
type ConfigError struct {
	Key   string
	Value string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Key, e.Value)
}

// Headings is the fixed set of localized section titles.
type Headings struct {
	Summary                 string
	Skills                  string
	Experience              string
	Education               string
	CertificationsLanguages string
	Certifications          string
	Languages               string
}

//nolint:gochecknoglobals // Immutable lookup table
var headings = map[Language]Headings{
	English: {
		Summary:                 "Professional Summary",
		Skills:                  "Technical Skills",
		Experience:              "Professional Experience",
		Education:               "Education",
		CertificationsLanguages: "Certifications & Languages",
		Certifications:          "Certifications",
		Languages:               "Languages",
	},
	Spanish: {
		Summary:                 "Resumen Profesional",
		Skills:                  "Habilidades Técnicas",
		Experience:              "Experiencia Profesional",
		Education:               "Educación",
		CertificationsLanguages: "Certificaciones e Idiomas",
		Certifications:          "Certificaciones",
		Languages:               "Idiomas",
	},
}

// Parse maps a language code to a Language. It accepts "en" and "es" and any
// BCP 47 tag whose base language is one of them, such as "es-MX". Anything
// else is a ConfigError.
func Parse(code string) (lang Language, err error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		err = &ConfigError{Key: "lang", Value: code}
		return lang, err
	}

	var tag language.Tag
	tag, err = language.Parse(trimmed)
	if err != nil {
		err = &ConfigError{Key: "lang", Value: code}
		return lang, err
	}

	base, _ := tag.Base()
	switch base.String() {
	case "en":
		lang = English
	case "es":
		lang = Spanish
	default:
		err = &ConfigError{Key: "lang", Value: code}
	}

	return lang, err
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() (ok bool) {
	_, ok = headings[l]
	return ok
}

// Code returns the two-letter language code, or "" for Invalid.
func (l Language) Code() (code string) {
	switch l {
	case English:
		code = "en"
	case Spanish:
		code = "es"
	}
	return code
}

// Tag returns the BCP 47 tag used for document metadata and case mapping.
func (l Language) Tag() (tag language.Tag) {
	switch l {
	case Spanish:
		tag = language.Spanish
	default:
		tag = language.English
	}
	return tag
}

// Name returns the English name of the language.
func (l Language) Name() (name string) {
	switch l {
	case English:
		name = "English"
	case Spanish:
		name = "Spanish"
	default:
		name = "invalid"
	}
	return name
}

func (l Language) String() string {
	return l.Code()
}

// Headings returns the heading table for l.
func (l Language) Headings() (h Headings, err error) {
	if !l.Valid() {
		err = &ConfigError{Key: "lang", Value: fmt.Sprintf("%d", int(l))}
		return h, err
	}
	h = headings[l]
	return h, err
}

// Upper upper-cases s using the case rules of l.
func (l Language) Upper(s string) (upper string) {
	upper = cases.Upper(l.Tag()).String(s)
	return upper
}
