package memory

import (
	"regexp"
	"strings"

	"github.com/chimeraproto/chimera/internal/core"
)

// Lexicons and patterns below are fixed: classification, extraction,
// tagging and scoring are pure functions of their input text.

var saveKeywords = []string{"remember", "save", "store", "keep", "note"}

var highKeywords = []string{
	"prefer", "like", "love", "hate", "dislike", "always", "never",
	"important", "critical", "must", "required", "need", "want",
	"remember", "note", "save", "store", "keep in mind",
}

var mediumKeywords = []string{
	"usually", "often", "sometimes", "typically", "generally",
	"working on", "building", "creating", "developing",
	"use", "using", "utilize", "employ",
}

// factPatterns match first-person factual statements. Order matters:
// extraction emits candidates in pattern order, and the importance score
// credits only the first match.
var factPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:I|we|user|team)\s+(?:am|is|are)\s+(.+)`),
	regexp.MustCompile(`(?i)\b(?:I|we|user|team)\s+(?:prefer|like|love|use|need)\s+(.+)`),
	regexp.MustCompile(`(?i)\b(?:my|our|the)\s+(?:name|email|phone|address|company)\s+(?:is|are)\s+(.+)`),
	regexp.MustCompile(`(?i)\b(?:I|we)\s+(?:work|working|build|building|develop|developing)\s+(?:on|with|in)\s+(.+)`),
}

const minFactLength = 10

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func matchesAnyPattern(text string) bool {
	for _, p := range factPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Classify grades a user message for persistence. Ordered rules, first
// match wins: explicit save intent or a high-importance keyword is high;
// a medium keyword or a factual pattern is medium; beyond that length
// alone decides.
func Classify(userMessage string) core.Importance {
	lower := strings.ToLower(userMessage)

	if containsAny(lower, saveKeywords) {
		return core.ImportanceHigh
	}
	if containsAny(lower, highKeywords) {
		return core.ImportanceHigh
	}
	if containsAny(lower, mediumKeywords) || matchesAnyPattern(userMessage) {
		return core.ImportanceMedium
	}

	words := len(strings.Fields(userMessage))
	switch {
	case words > 10:
		return core.ImportanceMedium
	case words > 3:
		return core.ImportanceLow
	default:
		return core.ImportanceNone
	}
}

// ExtractFacts pulls candidate facts out of text: every factual-pattern
// match long enough to stand alone, plus any sentence carrying a
// high-importance keyword. Candidates may overlap.
func ExtractFacts(text string) []core.FactCandidate {
	var facts []core.FactCandidate

	for _, pattern := range factPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			match = strings.TrimSpace(match)
			if len(match) > minFactLength {
				facts = append(facts, core.FactCandidate{
					Text:       match,
					Confidence: core.ConfidenceMedium,
					Source:     core.SourcePattern,
				})
			}
		}
	}

	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if containsAny(strings.ToLower(sentence), highKeywords) {
			facts = append(facts, core.FactCandidate{
				Text:       sentence,
				Confidence: core.ConfidenceHigh,
				Source:     core.SourceKeyword,
			})
		}
	}

	return facts
}
