package ats

// Rule represents a checking rule.
type Rule struct {
	Name        string
	Category    string // contact, content, formatting
	Severity    string // major, minor
	Description string
	Weight      int // Points deducted per finding
}

// Rule names.
const (
	RuleMissingEmail       = "MISSING_EMAIL"
	RuleMissingPhone       = "MISSING_PHONE"
	RuleMissingSummary     = "MISSING_SUMMARY"
	RuleNoExperience       = "NO_EXPERIENCE"
	RuleNoSkills           = "NO_SKILLS"
	RuleEmptyAchievements  = "EMPTY_ACHIEVEMENTS"
	RuleLongAchievement    = "LONG_ACHIEVEMENT"
	RuleUnsafeCharacters   = "UNSAFE_CHARACTERS"
	RuleSeparatorInContact = "SEPARATOR_IN_CONTACT"
	RulePhotoIncluded      = "PHOTO_INCLUDED"
	RuleExceedsOnePage     = "EXCEEDS_ONE_PAGE"
)

const (
	// MaxAchievementLength is the longest bullet, in characters, before it is flagged.
	MaxAchievementLength = 300

	// MaxPageLines is the estimated number of body lines that fit on one page.
	MaxPageLines = 55
)

//nolint:gochecknoglobals // Checking configuration constants
var Rules = map[string]Rule{
	// Contact Rules
	RuleMissingEmail: {
		Name:        RuleMissingEmail,
		Category:    "contact",
		Severity:    "major",
		Description: "No email address; recruiters cannot reply",
		Weight:      15,
	},
	RuleMissingPhone: {
		Name:        RuleMissingPhone,
		Category:    "contact",
		Severity:    "minor",
		Description: "No phone number",
		Weight:      5,
	},
	RuleSeparatorInContact: {
		Name:        RuleSeparatorInContact,
		Category:    "contact",
		Severity:    "minor",
		Description: "Contact field contains '|', which collides with the field separator",
		Weight:      3,
	},

	// Content Rules
	RuleMissingSummary: {
		Name:        RuleMissingSummary,
		Category:    "content",
		Severity:    "minor",
		Description: "No professional summary",
		Weight:      5,
	},
	RuleNoExperience: {
		Name:        RuleNoExperience,
		Category:    "content",
		Severity:    "major",
		Description: "No work experience entries",
		Weight:      15,
	},
	RuleNoSkills: {
		Name:        RuleNoSkills,
		Category:    "content",
		Severity:    "major",
		Description: "No skill categories; keyword matching has nothing to match",
		Weight:      10,
	},
	RuleEmptyAchievements: {
		Name:        RuleEmptyAchievements,
		Category:    "content",
		Severity:    "minor",
		Description: "Experience entry has no achievements",
		Weight:      5,
	},
	RuleLongAchievement: {
		Name:        RuleLongAchievement,
		Category:    "content",
		Severity:    "minor",
		Description: "Achievement longer than 300 characters",
		Weight:      3,
	},

	// Formatting Rules
	RuleUnsafeCharacters: {
		Name:        RuleUnsafeCharacters,
		Category:    "formatting",
		Severity:    "major",
		Description: "Field contains control characters, private-use glyphs or emoji that parsers drop or garble",
		Weight:      10,
	},
	RulePhotoIncluded: {
		Name:        RulePhotoIncluded,
		Category:    "formatting",
		Severity:    "minor",
		Description: "Photo included; some ATS parsers discard or misread images",
		Weight:      5,
	},
	RuleExceedsOnePage: {
		Name:        RuleExceedsOnePage,
		Category:    "formatting",
		Severity:    "minor",
		Description: "Estimated length exceeds one page",
		Weight:      5,
	},
}
