package memory

import "github.com/chimeraproto/chimera/internal/core"

// Score ranks a memory record against a tokenized query. Zero when the
// query and the record's title+content share no tokens; otherwise
//
//	(2*titleMatches + contentMatches) / |queryTokens|
//
// clamped to 1.0. Title matches count double. This is an asymmetric
// overlap measure, not Jaccard: only the query side normalizes.
func Score(queryTokens map[string]struct{}, record core.MemoryRecord) float64 {
	if len(queryTokens) == 0 {
		return 0
	}

	memoryTokens := Tokenize(record.Title + " " + record.Content)
	if len(memoryTokens) == 0 {
		return 0
	}

	titleTokens := Tokenize(record.Title)

	matches := 0
	titleMatches := 0
	for tok := range queryTokens {
		if _, ok := memoryTokens[tok]; !ok {
			continue
		}
		matches++
		if _, ok := titleTokens[tok]; ok {
			titleMatches++
		}
	}
	if matches == 0 {
		return 0
	}

	contentMatches := matches - titleMatches
	score := (2*float64(titleMatches) + float64(contentMatches)) / float64(len(queryTokens))
	if score > 1 {
		score = 1
	}
	return score
}
