package memory

import (
	"strings"
	"unicode"
)

// stopwords are dropped during tokenization along with anything of
// length <= 2. Fixed set; changing it changes every stored score.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "is", "are", "was", "were", "be", "been",
		"being", "have", "has", "had", "do", "does", "did", "will",
		"would", "could", "should", "may", "might", "must", "shall",
		"can", "to", "of", "in", "for", "on", "with", "at", "by",
		"from", "as", "into", "through", "during", "before", "after",
		"above", "below", "between", "under", "again", "further",
		"then", "once", "here", "there", "when", "where", "why",
		"how", "all", "each", "few", "more", "most", "other", "some",
		"such", "no", "nor", "not", "only", "own", "same", "so",
		"than", "too", "very", "just", "and", "but", "if", "or",
		"because", "until", "while", "this", "that", "these", "those",
		"it", "its", "i", "me", "my", "we", "our", "you", "your",
		"he", "him", "his", "she", "her", "they", "them", "their",
	} {
		stopwords[w] = struct{}{}
	}
}

// Tokenize lower-cases the text, splits on non-alphanumeric boundaries
// and drops short tokens and stopwords. Pure.
func Tokenize(text string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if len(w) <= 2 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}
