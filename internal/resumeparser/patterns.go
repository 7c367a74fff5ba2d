package resumeparser

import "regexp"

// Line-bounded patterns run against the raw text so that a match never runs past the end of
// a line. Skill, years and keyword patterns run against the cleaned text.

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	disallowedRe  = regexp.MustCompile(`[^\p{L}\p{N}_\s@.,:;+#/()&'|-]`)
	digitRunRe    = regexp.MustCompile(`\d{3,}`)
	nameLabelRe   = regexp.MustCompile(`(?i)\bname[ \t]*:[ \t]*([A-Za-z .]+)`)
	blankLineRe   = regexp.MustCompile(`\n[ \t]*\n`)
	roleKeywordRe = regexp.MustCompile(`engineer|developer|analyst|manager`)
)

var (
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`\+?1?[-. \t]?\(?(\d{3})\)?[-. \t]?(\d{3})[-. \t]?(\d{4})`),
		regexp.MustCompile(`\+?(\d{1,3})[-. \t]?(\d{3,4})[-. \t]?(\d{3,4})[-. \t]?(\d{3,4})`),
	}

	linkedInRe = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)

	locationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\blocation[ \t]*:[ \t]*([^\n]+)`),
		regexp.MustCompile(`(?i)\baddress[ \t]*:[ \t]*([^\n]+)`),
		regexp.MustCompile(`\b([A-Z][A-Za-z]+(?:[ \t]+[A-Z][A-Za-z]+)*,[ \t]*[A-Z]{2}(?:[ \t]+\d{5})?)\b`),
	}
)

var educationRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:Bachelor|Master|PhD|Doctorate|B\.Tech|M\.Tech|B\.S\.|M\.S\.|MBA|B\.A\.|M\.A\.|B\.E\.|M\.E\.)[^.\n]*`),
	regexp.MustCompile(`(?i)\b(?:University|College|Institute|School)[^.\n]*`),
	regexp.MustCompile(`(?i)\b(?:Computer Science|Engineering|Mathematics|Physics|Chemistry|Biology|Business|Economics|Finance)\b`),
	regexp.MustCompile(`(?i)\b(?:Degree|Diploma|Certificate|Certification)[^.\n]*`),
	regexp.MustCompile(`(?i)\b(?:GPA|CGPA|Grade)[ \t:]*[\d.]+`),
	regexp.MustCompile(`\b(?:19|20)\d{2}[ \t]*[-–][ \t]*(?:19|20)\d{2}\b`),
	regexp.MustCompile(`(?i)\b(?:19|20)\d{2}[ \t]*[-–][ \t]*Present\b`),
}

var (
	jobTitleRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:Software Engineer|Developer|Programmer|Analyst|Manager|Lead|Senior|Junior|Principal|Architect)[^.\n]*`),
		regexp.MustCompile(`(?i)\b(?:Engineer|Developer|Analyst|Manager|Specialist|Consultant|Director|VP|CEO|CTO)[^.\n]*`),
	}

	// companyRes entries with a capture group contribute group 1, the rest the full match.
	companyRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:Company|Corporation|Inc\.|Ltd\.|LLC|Technologies|Systems|Solutions)[^.\n]*`),
		regexp.MustCompile(`\b[Aa]t[ \t]+([A-Z][A-Za-z&]*(?:[ \t]+[A-Z&][A-Za-z&]*)*(?:[ \t]+(?:Inc\.|Ltd\.|LLC|Corp\.|Company))?)`),
	}
)

var yearsRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*of\s*experience`),
	regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*experience`),
	regexp.MustCompile(`(?i)experience\s*:\s*(\d+)\+?\s*years?`),
	regexp.MustCompile(`(?i)(\d+)\+?\s*year\s*experienced?`),
}

var (
	certificationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:AWS|Azure|Google Cloud|GCP)[ \t]+(?:Certified|Professional|Associate)[^.\n]*`),
		regexp.MustCompile(`\b(?i:certified|professional|associate)[ \t]+[A-Z][^.\n]*`),
		regexp.MustCompile(`(?i)\b(?:Scrum Master|PMP|CISSP|CISA|CISM)\b[^.\n]*`),
		regexp.MustCompile(`(?i)\bcertifications?[ \t]*:[ \t]*([^.\n]+)`),
	}

	projectRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bprojects?[ \t]*:[ \t]*([^.\n]+)`),
		regexp.MustCompile(`(?i)\bbuilt[ \t]+([^.\n]+)`),
		regexp.MustCompile(`(?i)\bdeveloped[ \t]+([^.\n]+)`),
		regexp.MustCompile(`(?i)\bcreated[ \t]+([^.\n]+)`),
	}

	languageRes = []*regexp.Regexp{
		regexp.MustCompile(`(?im)^[ \t]*languages?[ \t]*:[ \t]*([^.\n]+)`),
		regexp.MustCompile(`(?i)\b(?:English|Spanish|French|German|Chinese|Japanese|Korean|Hindi|Arabic|Portuguese|Russian|Italian)[ \t]*\([^)\n]+\)`),
		regexp.MustCompile(`(?i)\b(?:Native|Fluent|Conversational|Basic)[ \t]+(?:English|Spanish|French|German|Chinese|Japanese|Korean|Hindi|Arabic|Portuguese|Russian|Italian)\b`),
	}

	summaryLabelRe = regexp.MustCompile(`(?im)^[ \t]*(?:professional[ \t]+summary|summary|objective|profile)[ \t]*:[ \t]*`)
)

// skillPattern matches skill as a whole word, case-insensitively. Word boundaries are
// expressed as non-word neighbours so that names ending in symbols (C++, C#) still match.
func skillPattern(skill string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(skill) + `(?:[^\p{L}\p{N}_]|$)`)
}

// matches returns group 1 when re has a capture group, otherwise the full match.
func matches(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		if len(m) > 1 {
			out = append(out, m[1])
		} else {
			out = append(out, m[0])
		}
	}
	return out
}
