package memory

import "strings"

// tagRules is an ordered table: a text collects every tag whose keyword
// set it touches. Evaluation order fixes the output order.
var tagRules = []struct {
	tag      string
	keywords []string
}{
	{"preference", []string{"prefer", "like", "love", "favorite"}},
	{"project", []string{"building", "working", "developing", "creating"}},
	{"programming", []string{"python", "javascript", "java", "code", "programming"}},
	{"design", []string{"design", "ui", "ux", "interface", "layout"}},
	{"backend", []string{"api", "backend", "server", "database"}},
	{"frontend", []string{"frontend", "react", "vue", "angular"}},
	{"team", []string{"team", "colleague", "member", "collaborate"}},
	{"important", []string{"important", "critical", "must", "required"}},
}

// GenerateTags derives category tags for a memory. A text can earn
// several tags; one that matches nothing gets exactly "general".
func GenerateTags(text string) []string {
	lower := strings.ToLower(text)

	var tags []string
	for _, rule := range tagRules {
		if containsAny(lower, rule.keywords) {
			tags = append(tags, rule.tag)
		}
	}

	if len(tags) == 0 {
		tags = []string{"general"}
	}
	return tags
}

var scoreBonusKeywords = []string{"remember", "save", "important"}

// ImportanceScore rates a memory text in [0,1]. Starts at 0.5 and adds
// fixed increments: per high-importance keyword present (one credit per
// lexicon entry, not per occurrence), an explicit-save bonus, a bonus
// for the first factual pattern, and a length bonus at two word-count
// thresholds. Clamped to 1.0.
func ImportanceScore(text string) float64 {
	score := 0.5
	lower := strings.ToLower(text)

	for _, kw := range highKeywords {
		if strings.Contains(lower, kw) {
			score += 0.1
		}
	}

	if containsAny(lower, scoreBonusKeywords) {
		score += 0.2
	}

	if matchesAnyPattern(text) {
		score += 0.1
	}

	words := len(strings.Fields(text))
	if words > 50 {
		score += 0.1
	} else if words > 20 {
		score += 0.05
	}

	if score > 1 {
		score = 1
	}
	return score
}
