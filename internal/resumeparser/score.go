package resumeparser

import (
	"math"
	"strings"
)

var densityKeywords = []string{"experience", "skills", "education", "work", "project", "team", "management"}

func ExperienceLevelFor(years int) ExperienceLevel {
	switch {
	case years <= 0:
		return LevelEntry
	case years <= 2:
		return LevelJunior
	case years <= 5:
		return LevelMid
	case years <= 10:
		return LevelSenior
	default:
		return LevelExpert
	}
}

// ATSScore is additive and capped at 100: email 20, phone 15, three per skill up to 30,
// stated experience 20, any education 15.
func ATSScore(r ParsedResume) int {
	score := 0
	if r.Contact.Email != "" {
		score += 20
	}
	if r.Contact.Phone != "" {
		score += 15
	}
	score += min(30, len(r.AllSkills)*3)
	if r.YearsOfExperience > 0 {
		score += 20
	}
	if len(r.Education) > 0 {
		score += 15
	}
	return min(100, score)
}

// ReadabilityScore bands the average words per sentence. Text with no sentence terminators
// scores 50.
func ReadabilityScore(text string) int {
	words := len(strings.Fields(text))
	sentences := strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?")
	if sentences == 0 {
		return 50
	}
	avg := float64(words) / float64(sentences)
	switch {
	case avg < 15:
		return 90
	case avg < 20:
		return 75
	default:
		return 60
	}
}

// KeywordDensity counts keyword substrings per thousand words, capped at 100.
func KeywordDensity(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range densityKeywords {
		count += strings.Count(lower, kw)
	}
	return math.Min(100, float64(count)/float64(words)*1000)
}

func ImprovementSuggestions(r ParsedResume) []string {
	suggestions := []string{}
	if len(r.AllSkills) < 5 {
		suggestions = append(suggestions, "Add more relevant technical skills")
	}
	if r.Contact.Email == "" {
		suggestions = append(suggestions, "Include a professional email address")
	}
	if r.YearsOfExperience == 0 {
		suggestions = append(suggestions, "Clearly state your years of experience")
	}
	if len(r.Education) == 0 {
		suggestions = append(suggestions, "Add your educational background")
	}
	suggestions = append(suggestions,
		"Include quantifiable achievements",
		"Use industry-specific keywords",
	)
	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}
