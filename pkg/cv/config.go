package cv

import (
	"github.com/nikogura/ats-cv/pkg/document"
	"github.com/nikogura/ats-cv/pkg/locale"
	"github.com/nikogura/ats-cv/pkg/profile"
)

// Config controls a single render. Build it explicitly; DefaultConfig
// returns the stock settings.
type Config struct {
	Language  locale.Language
	PhotoPath profile.Optional[string]
	Page      document.Page
}

// DefaultPage returns the margins used for a one-page CV.
func DefaultPage() (page document.Page) {
	page = document.Page{
		MarginTop:    0.6,
		MarginBottom: 0.6,
		MarginLeft:   0.7,
		MarginRight:  0.7,
	}
	return page
}

// DefaultConfig returns English headings, no photo and the default page.
func DefaultConfig() (cfg Config) {
	cfg = Config{
		Language: locale.English,
		Page:     DefaultPage(),
	}
	return cfg
}
