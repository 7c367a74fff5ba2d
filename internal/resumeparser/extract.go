package resumeparser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

func extractName(raw string) string {
	lines := strings.Split(raw, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if n <= 2 || n >= 50 || strings.Contains(line, "@") || digitRunRe.MatchString(line) {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "resume") || strings.HasPrefix(lower, "cv") || strings.HasPrefix(lower, "curriculum") {
			continue
		}
		words := strings.Fields(line)
		if len(words) >= 2 && len(words) <= 4 && alphabetic(words) {
			return line
		}
	}

	if m := nameLabelRe.FindStringSubmatch(raw); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			return name
		}
	}
	return "Unknown"
}

// alphabetic reports whether every word is made of letters once dots are removed.
func alphabetic(words []string) bool {
	for _, w := range words {
		w = strings.ReplaceAll(w, ".", "")
		if w == "" {
			return false
		}
		for _, r := range w {
			if !unicode.IsLetter(r) {
				return false
			}
		}
	}
	return true
}

func extractContact(raw string) Contact {
	contact := Contact{
		Email:    emailRe.FindString(raw),
		LinkedIn: linkedInRe.FindString(raw),
	}
	for _, re := range phoneRes {
		if m := strings.TrimSpace(re.FindString(raw)); m != "" {
			contact.Phone = m
			break
		}
	}
	for _, re := range locationRes {
		m := re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		if loc := strings.TrimSpace(m[1]); loc != "" {
			contact.Location = loc
			break
		}
	}
	return contact
}

func extractEducation(raw string) []EducationEntry {
	entries := []EducationEntry{}
	seen := make(map[string]bool)
	for _, re := range educationRes {
		for _, m := range re.FindAllString(raw, -1) {
			desc := strings.TrimSpace(m)
			if utf8.RuneCountInString(desc) <= 3 || seen[desc] {
				continue
			}
			seen[desc] = true
			entries = append(entries, EducationEntry{Description: desc, Type: classifyEducation(desc)})
			if len(entries) == MaxEducation {
				return entries
			}
		}
	}
	return entries
}

// classifyEducation checks keyword groups from the highest degree down; the first hit wins.
func classifyEducation(desc string) EducationType {
	lower := strings.ToLower(desc)
	switch {
	case containsAny(lower, "phd", "doctorate", "doctoral"):
		return EducationDoctorate
	case containsAny(lower, "master", "m.s", "m.tech", "mba", "m.a"):
		return EducationMasters
	case containsAny(lower, "bachelor", "b.s", "b.tech", "b.a", "b.e"):
		return EducationBachelors
	case containsAny(lower, "diploma", "certificate"):
		return EducationCertificate
	default:
		return EducationOther
	}
}

func extractExperience(raw string) []ExperienceEntry {
	entries := []ExperienceEntry{}
	seen := make(map[ExperienceEntry]bool)
	add := func(e ExperienceEntry) bool {
		if !seen[e] {
			seen[e] = true
			entries = append(entries, e)
		}
		return len(entries) == MaxExperience
	}

	for _, re := range jobTitleRes {
		for _, m := range re.FindAllString(raw, -1) {
			title := strings.TrimSpace(m)
			if utf8.RuneCountInString(title) <= 5 {
				continue
			}
			if add(ExperienceEntry{Title: title, Type: ExperienceJobTitle}) {
				return entries
			}
		}
	}
	for _, re := range companyRes {
		for _, m := range matches(re, raw) {
			company := strings.TrimSpace(m)
			if utf8.RuneCountInString(company) <= 5 {
				continue
			}
			if add(ExperienceEntry{Company: company, Type: ExperienceCompany}) {
				return entries
			}
		}
	}
	return entries
}

func extractYearsOfExperience(cleaned string) int {
	for _, re := range yearsRes {
		m := re.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		if years, err := strconv.Atoi(m[1]); err == nil {
			return years
		}
	}

	lower := strings.ToLower(cleaned)
	switch {
	case containsAny(lower, "senior", "lead", "principal", "architect", "director"):
		return 7
	case containsAny(lower, "mid", "intermediate", "experienced"):
		return 4
	case containsAny(lower, "junior", "entry", "fresher", "graduate"):
		return 1
	}
	// Roughly two years per role mentioned.
	return min(len(roleKeywordRe.FindAllString(lower, -1))*2, 10)
}

func extractCertifications(raw string) []string {
	return collect(certificationRes, raw, 3, func(s string) bool {
		return !strings.HasSuffix(s, ":")
	})
}

func extractProjects(raw string) []string {
	return collect(projectRes, raw, 10, nil)
}

func extractLanguages(raw string) []string {
	return collect(languageRes, raw, 2, nil)
}

// collect gathers trimmed matches longer than minRunes, in first-seen order without
// duplicates, up to MaxListEntries.
func collect(res []*regexp.Regexp, text string, minRunes int, keep func(string) bool) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, re := range res {
		for _, m := range matches(re, text) {
			m = strings.TrimSpace(m)
			if utf8.RuneCountInString(m) <= minRunes || seen[m] {
				continue
			}
			if keep != nil && !keep(m) {
				continue
			}
			seen[m] = true
			out = append(out, m)
			if len(out) == MaxListEntries {
				return out
			}
		}
	}
	return out
}

func extractSummary(raw string) string {
	if loc := summaryLabelRe.FindStringIndex(raw); loc != nil {
		body, _, _ := strings.Cut(raw[loc[1]:], "\n")
		body = strings.TrimSpace(whitespaceRe.ReplaceAllString(body, " "))
		if utf8.RuneCountInString(body) > 20 {
			return truncateRunes(body, MaxSummaryRunes)
		}
	}

	for i, para := range blankLineRe.Split(raw, -1) {
		if i == 3 {
			break
		}
		para = strings.TrimSpace(para)
		if utf8.RuneCountInString(para) > 50 &&
			containsAny(strings.ToLower(para), "experience", "skilled", "professional", "expertise") {
			return truncateRunes(para, MaxSummaryRunes)
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
