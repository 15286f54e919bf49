// Package skills extracts skill labels from resume and job description text using a
// keyword vocabulary, optionally augmented by an entity recognizer.
package skills

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/jobmatch/internal/entities"
	"github.com/jonathan/jobmatch/internal/logger"
	"github.com/jonathan/jobmatch/internal/parsing"
)

// MaxSkills caps the size of an extracted Set.
const MaxSkills = 20

// Recognizer token length bounds, inclusive.
const (
	minTokenLen = 3
	maxTokenLen = 29
)

// Set is an ordered list of skill labels, unique case-insensitively.
type Set []string

// Extractor turns text into a skill Set.
type Extractor struct {
	vocab      *Vocabulary
	recognizer entities.Recognizer
	logger     *zap.Logger
}

// NewExtractor builds an Extractor. A nil vocabulary selects DefaultVocabulary and a
// nil recognizer disables the token pass.
func NewExtractor(vocab *Vocabulary, recognizer entities.Recognizer, log *zap.Logger) *Extractor {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if recognizer == nil {
		recognizer = entities.None{}
	}
	return &Extractor{
		vocab:      vocab,
		recognizer: recognizer,
		logger:     logger.OrNop(log).Named("skills"),
	}
}

// Extract returns the keyword matches of text in table order followed by recognizer
// tokens in discovery order, truncated to MaxSkills.
func (e *Extractor) Extract(ctx context.Context, text string) Set {
	return e.ExtractDocument(ctx, parsing.NewDocument(text))
}

// ExtractDocument is Extract over an already normalized document. Keywords are matched
// against the normalized text and the recognizer sees the raw text.
func (e *Extractor) ExtractDocument(ctx context.Context, doc parsing.Document) Set {
	result := make(Set, 0, MaxSkills)
	if parsing.IsBlank(doc.Raw) {
		return result
	}

	seen := make(map[string]struct{})
	add := func(label string) {
		key := strings.ToLower(label)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		result = append(result, label)
	}

	for _, keyword := range e.vocab.Keywords() {
		if keyword != "" && strings.Contains(doc.Normalized, keyword) {
			add(DisplayName(keyword))
		}
	}

	if e.recognizer.Available() {
		tokens, err := e.recognizer.Recognize(ctx, doc.Raw)
		if err != nil {
			e.logger.Warn("entity recognition failed, using keyword matches only", zap.Error(err))
		}
		for _, tok := range tokens {
			if acceptToken(tok) {
				add(tok.Text)
			}
		}
	}

	if len(result) > MaxSkills {
		result = result[:MaxSkills]
	}
	return result
}

// DisplayName renders a vocabulary keyword: title case when longer than two
// characters, upper case otherwise.
func DisplayName(keyword string) string {
	if utf8.RuneCountInString(keyword) > 2 {
		return cases.Title(language.English).String(keyword)
	}
	return strings.ToUpper(keyword)
}

func acceptToken(tok entities.Token) bool {
	if tok.Tag != entities.TagProperNoun && tok.Tag != entities.TagNoun {
		return false
	}

	n := utf8.RuneCountInString(tok.Text)
	if n < minTokenLen || n > maxTokenLen {
		return false
	}

	first, _ := utf8.DecodeRuneInString(tok.Text)
	if !unicode.IsUpper(first) {
		return false
	}
	for _, r := range tok.Text {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Missing returns the entries of want absent from have (case-insensitive), in want order, capped at limit.
func Missing(want, have []string, limit int) []string {
	present := parsing.FoldSet(have)

	missing := make([]string, 0)
	for _, w := range want {
		if len(missing) >= limit {
			break
		}
		if _, ok := present[strings.ToLower(w)]; !ok {
			missing = append(missing, w)
		}
	}
	return missing
}
