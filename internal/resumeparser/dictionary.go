package resumeparser

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"
)

// SkillCategory is one named group of canonical skill names.
type SkillCategory struct {
	Name   string   `yaml:"name" json:"name"`
	Skills []string `yaml:"skills" json:"skills"`
}

// SkillDictionary is walked in order, so its order decides the order of AllSkills.
type SkillDictionary []SkillCategory

// LoadDictionaryFile reads a YAML skill dictionary: a list of {name, skills} entries.
func LoadDictionaryFile(path string) (SkillDictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skills file: %w", err)
	}
	return ParseDictionary(data)
}

func ParseDictionary(data []byte) (SkillDictionary, error) {
	var dict SkillDictionary
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return nil, fmt.Errorf("failed to parse skills file: %w", err)
	}
	if err := dict.validate(); err != nil {
		return nil, err
	}
	return dict, nil
}

func (d SkillDictionary) validate() error {
	if len(d) == 0 {
		return fmt.Errorf("skill dictionary has no categories")
	}
	seen := make(map[string]bool, len(d))
	for i, cat := range d {
		name := strings.TrimSpace(cat.Name)
		if name == "" {
			return fmt.Errorf("skill category %d has no name", i)
		}
		if seen[name] {
			return fmt.Errorf("duplicate skill category %q", name)
		}
		seen[name] = true
		for _, skill := range cat.Skills {
			if strings.TrimSpace(skill) == "" {
				return fmt.Errorf("skill category %q has a blank skill", name)
			}
		}
	}
	return nil
}

// DefaultDictionary returns a fresh copy of the built-in dictionary.
func DefaultDictionary() SkillDictionary {
	return SkillDictionary{
		{Name: "programming_languages", Skills: []string{
			"Python", "Java", "JavaScript", "TypeScript", "C++", "C#", "C", "Go", "Rust",
			"PHP", "Ruby", "Swift", "Kotlin", "Scala", "R", "MATLAB", "Perl", "Shell",
			"Bash", "PowerShell", "VBA", "Objective-C", "Dart", "Elixir", "Haskell",
		}},
		{Name: "web_technologies", Skills: []string{
			"React", "Angular", "Vue.js", "Vue", "Node.js", "Express", "Django", "Flask",
			"Spring", "Laravel", "Rails", "ASP.NET", "HTML5", "HTML", "CSS3", "CSS",
			"SCSS", "SASS", "Bootstrap", "Tailwind", "jQuery", "AJAX", "REST", "GraphQL",
			"WebSocket", "Progressive Web App", "PWA", "Single Page Application", "SPA",
		}},
		{Name: "databases", Skills: []string{
			"SQL", "MySQL", "PostgreSQL", "MongoDB", "Redis", "Elasticsearch", "Oracle",
			"SQL Server", "SQLite", "Cassandra", "DynamoDB", "Neo4j", "InfluxDB",
			"CouchDB", "MariaDB", "Firebase", "Firestore", "Supabase",
		}},
		{Name: "cloud_platforms", Skills: []string{
			"AWS", "Azure", "Google Cloud", "GCP", "Digital Ocean", "Heroku", "Vercel",
			"Netlify", "Cloudflare", "IBM Cloud", "Oracle Cloud", "Alibaba Cloud",
		}},
		{Name: "devops_tools", Skills: []string{
			"Docker", "Kubernetes", "Jenkins", "GitLab CI", "GitHub Actions", "CircleCI",
			"Travis CI", "Ansible", "Terraform", "Vagrant", "Chef", "Puppet", "Helm",
			"Istio", "Prometheus", "Grafana", "ELK Stack", "Splunk", "Nagios",
		}},
		{Name: "version_control", Skills: []string{
			"Git", "GitHub", "GitLab", "Bitbucket", "SVN", "Mercurial", "Perforce",
		}},
		{Name: "data_science", Skills: []string{
			"Machine Learning", "ML", "Deep Learning", "AI", "Artificial Intelligence",
			"Data Science", "Data Analysis", "Statistics", "NLP", "Computer Vision",
			"TensorFlow", "PyTorch", "Keras", "Scikit-learn", "Pandas", "NumPy",
			"Matplotlib", "Seaborn", "Plotly", "Jupyter", "Apache Spark", "Hadoop",
			"Tableau", "Power BI", "R Studio", "SPSS", "SAS",
		}},
		{Name: "mobile_development", Skills: []string{
			"iOS", "Android", "React Native", "Flutter", "Xamarin", "Ionic", "Cordova",
			"Swift", "Objective-C", "Kotlin", "Java Android",
		}},
		{Name: "testing", Skills: []string{
			"Unit Testing", "Integration Testing", "Test Automation", "Selenium", "Jest",
			"Mocha", "Chai", "Cypress", "Playwright", "TestNG", "JUnit", "PyTest",
			"Postman", "Insomnia", "Load Testing", "Performance Testing",
		}},
		{Name: "soft_skills", Skills: []string{
			"Leadership", "Communication", "Team Work", "Problem Solving", "Critical Thinking",
			"Project Management", "Agile", "Scrum", "Kanban", "Time Management",
			"Analytical Skills", "Creativity", "Adaptability", "Collaboration",
			"Mentoring", "Public Speaking", "Presentation Skills", "Negotiation",
		}},
		{Name: "methodologies", Skills: []string{
			"Agile", "Scrum", "Kanban", "Waterfall", "DevOps", "CI/CD", "TDD", "BDD",
			"Microservices", "SOA", "MVC", "MVP", "MVVM", "Clean Architecture",
			"Domain Driven Design", "DDD", "Event Sourcing", "CQRS",
		}},
	}
}
