package analyzer

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/probelab/brandprobe/internal/model"
)

// RuleAnalyzer extracts visibility signals with deterministic text rules.
// It never errors and never makes a network call, which makes it both the
// zero-cost default and the fallback when a judge pass fails.
//
// Matching rule: case-insensitive with word boundaries on both sides, so
// brand "Bynder" matches "bynder is great" but not "Cybynder". Short brand
// names would otherwise produce false positives on substrings.
type RuleAnalyzer struct{}

// NewRuleAnalyzer creates a deterministic rule-based analyzer.
func NewRuleAnalyzer() *RuleAnalyzer { return &RuleAnalyzer{} }

// mentionPattern compiles the word-boundary matcher for a name. QuoteMeta
// keeps names like "Senso.ai" from being read as regex syntax.
func mentionPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
}

// firstMention returns the byte offset of the first word-boundary match of
// name in text, or -1 when absent.
func firstMention(text string, name string) int {
	loc := mentionPattern(name).FindStringIndex(text)
	if loc == nil {
		return -1
	}
	return loc[0]
}

// Small sentiment lexicons. Deliberately tiny: the signal wanted here is
// coarse framing (praised vs criticized), not graded sentiment analysis.
// Scoring is whole-word, same rigor as the mention rule: "bestow" does not
// count as "best", "lagers" does not count as "lags".
var positiveWords = lexicon(
	"best", "top", "leading", "great", "excellent", "strong", "popular",
	"recommended", "reliable", "innovative", "robust", "outstanding", "standout",
)

var negativeWords = lexicon(
	"worst", "poor", "weak", "lags", "lagging", "behind", "limited",
	"expensive", "outdated", "unreliable", "complicated", "declining",
)

func lexicon(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func (a *RuleAnalyzer) Extract(_ context.Context, rawText string, brand string, competitors []string, followUps []string) (*model.Extraction, error) {
	brandIdx := firstMention(rawText, brand)

	mentioned := make([]string, 0, len(competitors))
	positions := make(map[string]int, len(competitors))
	for _, comp := range competitors {
		idx := firstMention(rawText, comp)
		if idx >= 0 {
			mentioned = append(mentioned, comp)
			positions[comp] = idx
		}
	}

	// Ranking by first mention: 1 + number of competitors whose first
	// mention starts strictly before the brand's. 0 when the brand is
	// absent and no position is determinable.
	ranking := 0
	if brandIdx >= 0 {
		ranking = 1
		for _, idx := range positions {
			if idx < brandIdx {
				ranking++
			}
		}
	}

	ext := &model.Extraction{
		BrandMentioned:       brandIdx >= 0,
		Ranking:              ranking,
		CompetitorsMentioned: mentioned,
		Sentiment:            brandSentiment(rawText, brand),
	}

	// Free-form questions are out of reach for text rules; keep one slot
	// per question so the result shape is stable either way.
	if len(followUps) > 0 {
		ext.FollowUpAnswers = make([]string, len(followUps))
	}

	return ext, nil
}

// brandSentiment scores only the sentences that mention the brand, so praise
// for a competitor elsewhere in the answer does not leak into the brand's
// signal.
func brandSentiment(rawText string, brand string) string {
	if firstMention(rawText, brand) < 0 {
		return "neutral"
	}

	pattern := mentionPattern(brand)
	score := 0
	for _, sentence := range splitSentences(rawText) {
		if !pattern.MatchString(sentence) {
			continue
		}
		for _, token := range tokenize(sentence) {
			if _, ok := positiveWords[token]; ok {
				score++
			}
			if _, ok := negativeWords[token]; ok {
				score--
			}
		}
	}

	switch {
	case score > 0:
		return "positive"
	case score < 0:
		return "negative"
	default:
		return "neutral"
	}
}

func splitSentences(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
}

// tokenize lowercases and splits a sentence into word tokens on any
// non-letter, non-digit rune.
func tokenize(sentence string) []string {
	return strings.FieldsFunc(strings.ToLower(sentence), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
