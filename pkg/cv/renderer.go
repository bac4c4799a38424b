// Package cv turns a Profile into an ATS-friendly document.
//
// The layout is a fixed sequence of blocks (header, summary, skills,
// experience, education, certifications and languages) appended to a single
// column. There are no tables and no graphics other than the optional photo,
// which floats at the right margin of the header.
//
// A block whose content is empty is omitted together with its heading.
package cv

import (
	"context"
	"strings"

	"github.com/nikogura/ats-cv/pkg/document"
	"github.com/nikogura/ats-cv/pkg/locale"
	"github.com/nikogura/ats-cv/pkg/photo"
	"github.com/nikogura/ats-cv/pkg/profile"
)

// Colours are hex RGB.
const (
	ColorPrimary   = "003366"
	ColorSecondary = "505050"
	ColorMuted     = "646464"
)

// Font sizes in points.
const (
	SizeName    = 26
	SizeTitle   = 13
	SizeSection = 12
	SizeBody    = 11
	SizeSmall   = 10
)

const (
	contactSeparator = "  |  "
	fieldSeparator   = " | "
	inlineSeparator  = "  •  "
	bulletPrefix     = "• "
)

// Render validates p and cfg and builds the document. It fails with
// *profile.ValidationError for a missing name or title, *locale.ConfigError
// for an unknown language and *photo.ResourceError for an unusable photo.
// Nothing is returned on failure.
func Render(ctx context.Context, p profile.Profile, cfg Config) (doc document.Document, err error) {
	err = p.Validate()
	if err != nil {
		return doc, err
	}

	var h locale.Headings
	h, err = cfg.Language.Headings()
	if err != nil {
		return doc, err
	}

	var img *document.Image
	if path, ok := cfg.PhotoPath.Get(); ok {
		var loaded document.Image
		loaded, err = photo.Load(ctx, path)
		if err != nil {
			return doc, err
		}
		img = &loaded
	}

	page := cfg.Page
	if page == (document.Page{}) {
		page = DefaultPage()
	}

	b := &builder{
		lang:     cfg.Language,
		headings: h,
		doc: document.Document{
			Title:    p.Personal.Name + " - " + p.Personal.Title,
			Author:   p.Personal.Name,
			Language: cfg.Language.Code(),
			Page:     page,
		},
	}

	b.header(p.Personal, img)
	b.summary(p.Summary)
	b.skills(p.Skills)
	b.experience(p.Experience)
	b.education(p.Education)
	b.certificationsAndLanguages(p.Certifications, p.Languages)

	doc = b.doc
	return doc, err
}

type builder struct {
	lang     locale.Language
	headings locale.Headings
	doc      document.Document
}

func (b *builder) add(p document.Paragraph) {
	b.doc.Append(p)
}

func (b *builder) header(personal profile.Personal, img *document.Image) {
	align := document.AlignCenter
	if img != nil {
		align = document.AlignLeft
	}

	b.add(document.Paragraph{
		Align:      align,
		SpaceAfter: 2,
		Float:      img,
		Runs: []document.Run{{
			Text:  b.lang.Upper(personal.Name),
			Bold:  true,
			Size:  SizeName,
			Color: ColorPrimary,
		}},
	})

	b.add(document.Paragraph{
		Align:      align,
		SpaceAfter: 6,
		Runs: []document.Run{{
			Text:  personal.Title,
			Size:  SizeTitle,
			Color: ColorSecondary,
		}},
	})

	lines := []string{
		joinPresent(personal.Contact(), contactSeparator),
		joinPresent(personal.Links(), contactSeparator),
	}
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.add(document.Paragraph{
			Align:      align,
			SpaceAfter: 2,
			Runs:       []document.Run{{Text: line, Size: SizeSmall}},
		})
	}

	// Gap between the header and the first section.
	last := &b.doc.Paragraphs[len(b.doc.Paragraphs)-1]
	last.SpaceAfter = 10
	last.ClearFloats = img != nil
}

func (b *builder) summary(summary profile.Optional[string]) {
	text, ok := summary.Get()
	if !ok {
		return
	}

	b.heading(b.headings.Summary)
	b.add(document.Paragraph{
		SpaceAfter:  4,
		LineSpacing: 1.15,
		Runs:        []document.Run{{Text: text, Size: SizeBody}},
	})
}

func (b *builder) skills(categories []profile.SkillCategory) {
	if len(categories) == 0 {
		return
	}

	b.heading(b.headings.Skills)
	for _, c := range categories {
		var runs []document.Run
		if c.Name != "" {
			runs = append(runs, document.Run{Text: c.Name + ": ", Bold: true, Size: SizeBody})
		}
		runs = append(runs, document.Run{Text: c.Skills, Size: SizeBody})

		b.add(document.Paragraph{
			SpaceBefore: 2,
			SpaceAfter:  3,
			LineSpacing: 1.1,
			Runs:        runs,
		})
	}
}

func (b *builder) experience(entries []profile.Experience) {
	var jobs []profile.Experience
	for _, e := range entries {
		if e.Title != "" || e.Company != "" || e.Location != "" || e.Dates != "" || len(e.Achievements) > 0 {
			jobs = append(jobs, e)
		}
	}
	if len(jobs) == 0 {
		return
	}

	b.heading(b.headings.Experience)
	for _, job := range jobs {
		runs := joinRuns(fieldSeparator,
			document.Run{Text: job.Title, Bold: true, Size: SizeBody},
			document.Run{Text: job.Company, Italic: true, Size: SizeBody},
			document.Run{Text: job.Location, Size: SizeBody},
			document.Run{Text: job.Dates, Italic: true, Size: SizeBody, Color: ColorMuted},
		)
		if len(runs) > 0 {
			b.add(document.Paragraph{
				SpaceBefore: 8,
				SpaceAfter:  4,
				Runs:        runs,
			})
		}

		for _, achievement := range job.Achievements {
			b.bullet(achievement)
		}
	}
}

func (b *builder) education(entries []profile.Education) {
	var schools []profile.Education
	for _, e := range entries {
		if e.Degree != "" || e.Institution != "" || e.Dates != "" || e.Details.IsSet() {
			schools = append(schools, e)
		}
	}
	if len(schools) == 0 {
		return
	}

	b.heading(b.headings.Education)
	for _, edu := range schools {
		if edu.Degree != "" {
			b.add(document.Paragraph{
				SpaceBefore: 4,
				SpaceAfter:  2,
				Runs:        []document.Run{{Text: edu.Degree, Bold: true, Size: SizeBody}},
			})
		}

		runs := joinRuns(fieldSeparator,
			document.Run{Text: edu.Institution, Italic: true, Size: SizeBody},
			document.Run{Text: edu.Dates, Italic: true, Size: SizeBody},
		)
		if len(runs) > 0 {
			b.add(document.Paragraph{SpaceAfter: 3, Runs: runs})
		}

		if details, ok := edu.Details.Get(); ok {
			b.bullet(details)
		}
	}
}

func (b *builder) certificationsAndLanguages(certs []string, languages []profile.LanguageSkill) {
	var certNames []string
	for _, c := range certs {
		if c != "" {
			certNames = append(certNames, c)
		}
	}

	var langNames []string
	for _, l := range languages {
		if l.Language == "" {
			continue
		}
		name := l.Language
		if l.Level != "" {
			name += " (" + l.Level + ")"
		}
		langNames = append(langNames, name)
	}

	var parts []string
	if len(certNames) > 0 {
		parts = append(parts, b.headings.Certifications+": "+strings.Join(certNames, ", "))
	}
	if len(langNames) > 0 {
		parts = append(parts, b.headings.Languages+": "+strings.Join(langNames, ", "))
	}
	if len(parts) == 0 {
		return
	}

	b.heading(b.headings.CertificationsLanguages)
	b.add(document.Paragraph{
		SpaceBefore: 4,
		SpaceAfter:  6,
		LineSpacing: 1.15,
		Runs:        []document.Run{{Text: strings.Join(parts, inlineSeparator), Size: SizeBody}},
	})
}

// heading adds an upper-cased section title with a bottom rule.
func (b *builder) heading(text string) {
	b.add(document.Paragraph{
		SpaceBefore:  14,
		SpaceAfter:   6,
		BorderBottom: &document.Border{Size: 4, Color: ColorPrimary},
		Runs: []document.Run{{
			Text:  b.lang.Upper(text),
			Bold:  true,
			Size:  SizeSection,
			Color: ColorPrimary,
		}},
	})
}

func (b *builder) bullet(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	b.add(document.Paragraph{
		SpaceBefore: 2,
		SpaceAfter:  3,
		IndentLeft:  0.2,
		LineSpacing: 1.15,
		Runs:        []document.Run{{Text: bulletPrefix + text, Size: SizeBody}},
	})
}

// joinPresent joins the set fields with sep, skipping absent ones.
func joinPresent(fields []profile.Optional[string], sep string) (line string) {
	var parts []string
	for _, f := range fields {
		if v, ok := f.Get(); ok {
			parts = append(parts, v)
		}
	}
	line = strings.Join(parts, sep)
	return line
}

// joinRuns drops runs with empty text and puts a separator run between the rest.
func joinRuns(sep string, runs ...document.Run) (joined []document.Run) {
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if len(joined) > 0 {
			joined = append(joined, document.Run{Text: sep, Size: r.Size})
		}
		joined = append(joined, r)
	}
	return joined
}
