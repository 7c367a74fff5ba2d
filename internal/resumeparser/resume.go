// Package resumeparser turns plain resume text into a ParsedResume using a skill dictionary
// and a fixed set of regular expressions. It is a best-effort heuristic: it never fails the
// caller and always returns a usable record.
package resumeparser

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type ExperienceLevel string

const (
	LevelEntry  ExperienceLevel = "Entry Level"
	LevelJunior ExperienceLevel = "Junior"
	LevelMid    ExperienceLevel = "Mid Level"
	LevelSenior ExperienceLevel = "Senior"
	LevelExpert ExperienceLevel = "Expert"
)

type EducationType string

const (
	EducationDoctorate   EducationType = "Doctorate"
	EducationMasters     EducationType = "Masters"
	EducationBachelors   EducationType = "Bachelors"
	EducationCertificate EducationType = "Certificate"
	EducationOther       EducationType = "Other"
)

type ExperienceType string

const (
	ExperienceJobTitle ExperienceType = "job_title"
	ExperienceCompany  ExperienceType = "company"
)

// Caps applied to extracted lists.
const (
	MaxEducation      = 5
	MaxExperience     = 10
	MaxListEntries    = 5
	MaxSummaryRunes   = 500
	MaxSuggestions    = 5
	minResumeRunes    = 10
	shortInputMessage = "Resume text is too short or empty"
)

type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Location string `json:"location,omitempty"`
}

type EducationEntry struct {
	Description string        `json:"description"`
	Type        EducationType `json:"type"`
}

// ExperienceEntry holds either a title or a company, never both. Titles and companies are
// found independently and are not linked to each other.
type ExperienceEntry struct {
	Title   string         `json:"title,omitempty"`
	Company string         `json:"company,omitempty"`
	Type    ExperienceType `json:"type"`
}

type ParsedResume struct {
	Name              string              `json:"name"`
	Contact           Contact             `json:"contact"`
	Skills            map[string][]string `json:"skills"`
	AllSkills         []string            `json:"all_skills"`
	Education         []EducationEntry    `json:"education"`
	Experience        []ExperienceEntry   `json:"experience"`
	YearsOfExperience int                 `json:"years_of_experience"`
	Certifications    []string            `json:"certifications"`
	Projects          []string            `json:"projects"`
	Languages         []string            `json:"languages"`
	Summary           string              `json:"summary"`
	TotalSkills       int                 `json:"total_skills"`
	SkillCategories   int                 `json:"skill_categories"`
	ExperienceLevel   ExperienceLevel     `json:"experience_level"`
	ParsingStatus     Status              `json:"parsing_status"`
	ErrorMessage      string              `json:"error,omitempty"`

	ATSScore               int      `json:"ats_score"`
	ReadabilityScore       int      `json:"readability_score"`
	KeywordDensity         float64  `json:"keyword_density"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
}

func (r ParsedResume) OK() bool {
	return r.ParsingStatus == StatusSuccess
}
