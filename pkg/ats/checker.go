// Package ats scores a profile for how reliably applicant tracking systems
// will parse the rendered CV. The check is advisory: it never changes what
// gets rendered.
package ats

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nikogura/ats-cv/pkg/profile"
)

// charsPerLine approximates an 11pt Calibri line across a 7.1in body.
const charsPerLine = 95

// Options describe render settings that affect the score.
type Options struct {
	PhotoIncluded bool
}

// Finding is one rule violation.
type Finding struct {
	Rule   string `json:"rule"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail"`
}

// Report is the result of a check.
type Report struct {
	Score          int       `json:"score"`
	Findings       []Finding `json:"findings"`
	EstimatedLines int       `json:"estimated_lines"`
}

// Passed reports whether the score reaches threshold.
func (r Report) Passed(threshold int) (passed bool) {
	passed = r.Score >= threshold
	return passed
}

// Severity returns the severity of the finding's rule.
func (f Finding) Severity() (severity string) {
	severity = Rules[f.Rule].Severity
	return severity
}

// Check runs every rule against p. Findings come in a fixed rule order and,
// within a rule, in profile order.
func Check(p profile.Profile, opts Options) (report Report) {
	c := &checker{}

	c.contact(p.Personal)

	if !p.Summary.IsSet() {
		c.add(RuleMissingSummary, "summary", "add a short professional summary")
	}
	if len(p.Experience) == 0 {
		c.add(RuleNoExperience, "experience", "no positions listed")
	}
	if len(p.Skills) == 0 {
		c.add(RuleNoSkills, "skills", "no skill categories listed")
	}

	for i, e := range p.Experience {
		if len(e.Achievements) == 0 {
			c.add(RuleEmptyAchievements, fmt.Sprintf("experience[%d]", i), describeJob(e)+" has no achievements")
		}
	}

	for i, e := range p.Experience {
		for j, a := range e.Achievements {
			n := utf8.RuneCountInString(a)
			if n > MaxAchievementLength {
				c.add(RuleLongAchievement, fmt.Sprintf("experience[%d].achievements[%d]", i, j),
					fmt.Sprintf("%d characters (max %d)", n, MaxAchievementLength))
			}
		}
	}

	for _, f := range textFields(p) {
		if r, bad := firstUnsafeRune(f.value); bad {
			c.add(RuleUnsafeCharacters, f.path, fmt.Sprintf("contains %U", r))
		}
	}

	if opts.PhotoIncluded {
		c.add(RulePhotoIncluded, "photo", "consider a photo-free version for ATS submissions")
	}

	report.EstimatedLines = EstimateLines(p)
	if report.EstimatedLines > MaxPageLines {
		c.add(RuleExceedsOnePage, "", fmt.Sprintf("about %d lines (one page holds %d)", report.EstimatedLines, MaxPageLines))
	}

	report.Findings = c.findings
	report.Score = score(c.findings)

	return report
}

type checker struct {
	findings []Finding
}

func (c *checker) add(rule, field, detail string) {
	c.findings = append(c.findings, Finding{Rule: rule, Field: field, Detail: detail})
}

func (c *checker) contact(personal profile.Personal) {
	if !personal.Email.IsSet() {
		c.add(RuleMissingEmail, "personal.email", "add an email address")
	}
	if !personal.Phone.IsSet() {
		c.add(RuleMissingPhone, "personal.phone", "add a phone number")
	}

	contact := []struct {
		path  string
		value profile.Optional[string]
	}{
		{"personal.email", personal.Email},
		{"personal.phone", personal.Phone},
		{"personal.location", personal.Location},
		{"personal.github", personal.GitHub},
		{"personal.linkedin", personal.LinkedIn},
		{"personal.portfolio", personal.Portfolio},
	}
	for _, f := range contact {
		if v, ok := f.value.Get(); ok && strings.Contains(v, "|") {
			c.add(RuleSeparatorInContact, f.path, "remove '|' from the value")
		}
	}
}

func score(findings []Finding) (total int) {
	total = 100
	for _, f := range findings {
		total -= Rules[f.Rule].Weight
	}
	if total < 0 {
		total = 0
	}
	return total
}

func describeJob(e profile.Experience) (desc string) {
	var parts []string
	for _, s := range []string{e.Title, e.Company} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	desc = strings.Join(parts, " at ")
	if desc == "" {
		desc = "entry"
	}
	return desc
}

type textField struct {
	path  string
	value string
}

// textFields lists every rendered string in the profile with its path.
func textFields(p profile.Profile) (fields []textField) {
	add := func(path, value string) {
		if value != "" {
			fields = append(fields, textField{path, value})
		}
	}
	addOptional := func(path string, value profile.Optional[string]) {
		if v, ok := value.Get(); ok {
			add(path, v)
		}
	}

	add("personal.name", p.Personal.Name)
	add("personal.title", p.Personal.Title)
	addOptional("personal.email", p.Personal.Email)
	addOptional("personal.phone", p.Personal.Phone)
	addOptional("personal.location", p.Personal.Location)
	addOptional("personal.github", p.Personal.GitHub)
	addOptional("personal.linkedin", p.Personal.LinkedIn)
	addOptional("personal.portfolio", p.Personal.Portfolio)
	addOptional("summary", p.Summary)

	for _, s := range p.Skills {
		add("skills."+s.Name, s.Name+" "+s.Skills)
	}

	for i, e := range p.Experience {
		prefix := fmt.Sprintf("experience[%d]", i)
		add(prefix+".title", e.Title)
		add(prefix+".company", e.Company)
		add(prefix+".location", e.Location)
		add(prefix+".dates", e.Dates)
		for j, a := range e.Achievements {
			add(fmt.Sprintf("%s.achievements[%d]", prefix, j), a)
		}
	}

	for i, e := range p.Education {
		prefix := fmt.Sprintf("education[%d]", i)
		add(prefix+".degree", e.Degree)
		add(prefix+".institution", e.Institution)
		add(prefix+".dates", e.Dates)
		addOptional(prefix+".details", e.Details)
	}

	for i, c := range p.Certifications {
		add(fmt.Sprintf("certifications[%d]", i), c)
	}

	for i, l := range p.Languages {
		add(fmt.Sprintf("languages[%d]", i), l.Language+" "+l.Level)
	}

	return fields
}

// firstUnsafeRune returns the first rune an ATS parser is likely to drop or
// garble.
func firstUnsafeRune(s string) (r rune, found bool) {
	for _, r = range s {
		switch {
		case r == utf8.RuneError:
			return r, true
		case unicode.IsControl(r):
			return r, true
		case unicode.Is(unicode.Co, r):
			return r, true
		case isEmoji(r):
			return r, true
		}
	}
	return 0, false
}

func isEmoji(r rune) (emoji bool) {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // supplementary emoji blocks
		emoji = true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		emoji = true
	case r == 0xFE0F || r == 0x200D: // variation selector, zero width joiner
		emoji = true
	}
	return emoji
}

// EstimateLines approximates how many body lines the rendered CV occupies,
// counting spacing around headings and entries as lines.
func EstimateLines(p profile.Profile) (lines int) {
	// Name in 26pt takes two body lines, title one.
	lines = 3
	for _, group := range [][]profile.Optional[string]{p.Personal.Contact(), p.Personal.Links()} {
		for _, f := range group {
			if f.IsSet() {
				lines++
				break
			}
		}
	}

	const heading = 2

	if s, ok := p.Summary.Get(); ok {
		lines += heading + wrapped(s)
	}

	if len(p.Skills) > 0 {
		lines += heading
		for _, s := range p.Skills {
			lines += wrapped(s.Name + ": " + s.Skills)
		}
	}

	if len(p.Experience) > 0 {
		lines += heading
		for _, e := range p.Experience {
			lines++ // gap before entry
			lines += wrapped(strings.Join([]string{e.Title, e.Company, e.Location, e.Dates}, " | "))
			for _, a := range e.Achievements {
				lines += wrapped("• " + a)
			}
		}
	}

	if len(p.Education) > 0 {
		lines += heading
		for _, e := range p.Education {
			if e.Degree != "" {
				lines++
			}
			if e.Institution != "" || e.Dates != "" {
				lines++
			}
			if d, ok := e.Details.Get(); ok {
				lines += wrapped("• " + d)
			}
		}
	}

	if len(p.Certifications) > 0 || len(p.Languages) > 0 {
		var b strings.Builder
		for _, c := range p.Certifications {
			b.WriteString(c + ", ")
		}
		for _, l := range p.Languages {
			b.WriteString(l.Language + " (" + l.Level + "), ")
		}
		lines += heading + wrapped(b.String())
	}

	return lines
}

func wrapped(s string) (lines int) {
	n := utf8.RuneCountInString(s)
	lines = (n + charsPerLine - 1) / charsPerLine
	if lines == 0 {
		lines = 1
	}
	return lines
}
