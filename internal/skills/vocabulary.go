package skills

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/jonathan/jobmatch/internal/schemas"
)

// Category is a named, ordered list of lowercase skill keywords.
type Category struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Vocabulary is the ordered keyword table scanned by the Extractor.
// Table order decides output order.
type Vocabulary struct {
	Categories []Category `yaml:"categories" json:"categories"`
}

// DefaultVocabulary returns the built-in keyword table.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{Categories: []Category{
		{Name: "programming", Keywords: []string{
			"python", "javascript", "typescript", "java", "golang", "rust", "c++", "c#",
			"ruby", "php", "swift", "kotlin", "scala", "perl", "haskell", "elixir",
		}},
		{Name: "web", Keywords: []string{
			"react", "angular", "vue", "next.js", "node.js", "express", "django", "flask",
			"fastapi", "spring", "rails", "html", "css", "graphql", "rest api",
		}},
		{Name: "database", Keywords: []string{
			"sql", "postgresql", "mysql", "mongodb", "redis", "elasticsearch", "cassandra",
			"dynamodb", "sqlite", "oracle",
		}},
		{Name: "cloud", Keywords: []string{
			"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ansible", "serverless",
			"lambda", "cloudformation",
		}},
		{Name: "data", Keywords: []string{
			"machine learning", "deep learning", "tensorflow", "pytorch", "pandas", "numpy",
			"scikit-learn", "spark", "hadoop", "kafka", "airflow", "tableau", "nlp",
		}},
		{Name: "tools", Keywords: []string{
			"git", "jenkins", "jira", "linux", "bash", "ci/cd", "github actions", "gitlab",
			"agile", "scrum",
		}},
		{Name: "mobile", Keywords: []string{
			"android", "ios", "react native", "flutter", "xamarin",
		}},
		{Name: "design", Keywords: []string{
			"figma", "sketch", "photoshop", "illustrator", "wireframing", "user research",
		}},
	}}
}

// Keywords returns every keyword in table order.
func (v *Vocabulary) Keywords() []string {
	var keywords []string
	for _, c := range v.Categories {
		keywords = append(keywords, c.Keywords...)
	}
	return keywords
}

// Category returns the category a keyword belongs to, if any.
func (v *Vocabulary) Category(keyword string) (string, bool) {
	keyword = strings.ToLower(keyword)
	for _, c := range v.Categories {
		for _, k := range c.Keywords {
			if k == keyword {
				return c.Name, true
			}
		}
	}
	return "", false
}

// LoadVocabulary reads a YAML or JSON vocabulary file and validates it before use.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes a YAML (or JSON) vocabulary document.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary: %w", err)
	}
	if err := schemas.Validate(schemas.SkillVocabulary, raw); err != nil {
		return nil, fmt.Errorf("invalid vocabulary: %w", err)
	}

	var vocab Vocabulary
	if err := yaml.Unmarshal(data, &vocab); err != nil {
		return nil, fmt.Errorf("failed to decode vocabulary: %w", err)
	}
	return &vocab, nil
}
