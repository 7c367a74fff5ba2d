package resumeparser

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"
)

type compiledSkill struct {
	name    string
	pattern *regexp.Regexp
}

type compiledCategory struct {
	name   string
	skills []compiledSkill
}

// Parser holds compiled skill matchers. It is immutable after New and safe for concurrent
// use by multiple goroutines.
type Parser struct {
	categories []compiledCategory
}

type Option func(*Parser)

// WithDictionary replaces the built-in skill dictionary.
func WithDictionary(dict SkillDictionary) Option {
	return func(p *Parser) {
		p.categories = compileDictionary(dict)
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	if p.categories == nil {
		p.categories = compileDictionary(DefaultDictionary())
	}
	return p
}

func compileDictionary(dict SkillDictionary) []compiledCategory {
	categories := make([]compiledCategory, 0, len(dict))
	for _, cat := range dict {
		cc := compiledCategory{name: cat.Name}
		for _, skill := range cat.Skills {
			cc.skills = append(cc.skills, compiledSkill{name: skill, pattern: skillPattern(skill)})
		}
		categories = append(categories, cc)
	}
	return categories
}

var defaultParser = sync.OnceValue(func() *Parser { return New() })

// Parse runs the shared default parser.
func Parse(text string) ParsedResume {
	return defaultParser().Parse(text)
}

// Parse never panics. Input that is too short, or any failure while extracting fields,
// yields a record with ParsingStatus set to StatusError.
func (p *Parser) Parse(text string) (result ParsedResume) {
	defer func() {
		if r := recover(); r != nil {
			result = p.errorResult(fmt.Sprintf("Parsing error: %v", r))
		}
	}()

	if utf8.RuneCountInString(strings.TrimSpace(text)) < minResumeRunes {
		return p.errorResult(shortInputMessage)
	}

	raw := strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
	cleaned := cleanText(raw)

	skills, allSkills := p.extractSkills(cleaned)
	result = ParsedResume{
		Name:              extractName(raw),
		Contact:           extractContact(raw),
		Skills:            skills,
		AllSkills:         allSkills,
		Education:         extractEducation(raw),
		Experience:        extractExperience(raw),
		YearsOfExperience: extractYearsOfExperience(cleaned),
		Certifications:    extractCertifications(raw),
		Projects:          extractProjects(raw),
		Languages:         extractLanguages(raw),
		Summary:           extractSummary(raw),
		ParsingStatus:     StatusSuccess,
	}

	result.TotalSkills = len(result.AllSkills)
	for _, list := range result.Skills {
		if len(list) > 0 {
			result.SkillCategories++
		}
	}
	result.ExperienceLevel = ExperienceLevelFor(result.YearsOfExperience)
	result.ATSScore = ATSScore(result)
	result.ReadabilityScore = ReadabilityScore(text)
	result.KeywordDensity = KeywordDensity(text)
	result.ImprovementSuggestions = ImprovementSuggestions(result)
	return result
}

func (p *Parser) errorResult(message string) ParsedResume {
	skills := make(map[string][]string, len(p.categories))
	for _, cat := range p.categories {
		skills[cat.name] = []string{}
	}
	return ParsedResume{
		Name:                   "Unknown",
		Skills:                 skills,
		AllSkills:              []string{},
		Education:              []EducationEntry{},
		Experience:             []ExperienceEntry{},
		Certifications:         []string{},
		Projects:               []string{},
		Languages:              []string{},
		ExperienceLevel:        LevelEntry,
		ParsingStatus:          StatusError,
		ErrorMessage:           message,
		ImprovementSuggestions: []string{},
	}
}

// cleanText collapses whitespace and blanks out symbols other than basic punctuation and the
// few characters that occur inside skill names.
func cleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = disallowedRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func (p *Parser) extractSkills(cleaned string) (map[string][]string, []string) {
	skills := make(map[string][]string, len(p.categories))
	all := []string{}
	seen := make(map[string]bool)
	for _, cat := range p.categories {
		found := []string{}
		for _, skill := range cat.skills {
			if !skill.pattern.MatchString(cleaned) {
				continue
			}
			found = append(found, skill.name)
			if !seen[skill.name] {
				seen[skill.name] = true
				all = append(all, skill.name)
			}
		}
		if existing, ok := skills[cat.name]; ok {
			found = append(existing, found...)
		}
		skills[cat.name] = found
	}
	return skills, all
}
