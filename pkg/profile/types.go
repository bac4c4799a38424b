package profile

// Profile represents the complete CV input record.
type Profile struct {
	Personal       Personal
	Summary        Optional[string]
	Skills         []SkillCategory
	Experience     []Experience
	Education      []Education
	Certifications []string
	Languages      []LanguageSkill
}

// Personal holds identity and contact information. Name and Title are required.
type Personal struct {
	Name      string
	Title     string
	Email     Optional[string]
	Phone     Optional[string]
	Location  Optional[string]
	GitHub    Optional[string]
	LinkedIn  Optional[string]
	Portfolio Optional[string]
}

// SkillCategory is one "Category: skill, skill" line.
type SkillCategory struct {
	Name   string
	Skills string
}

// Experience represents a single position.
type Experience struct {
	Title        string
	Company      string
	Location     string
	Dates        string
	Achievements []string
}

// Education represents a single degree or program.
type Education struct {
	Degree      string
	Institution string
	Dates       string
	Details     Optional[string]
}

// LanguageSkill is a spoken language and proficiency level.
type LanguageSkill struct {
	Language string
	Level    string
}

// Contact returns the contact fields in display order.
func (p Personal) Contact() (fields []Optional[string]) {
	fields = []Optional[string]{p.Email, p.Phone, p.Location}
	return fields
}

// Links returns the profile link fields in display order.
func (p Personal) Links() (fields []Optional[string]) {
	fields = []Optional[string]{p.GitHub, p.LinkedIn, p.Portfolio}
	return fields
}
