package chunker

import "strings"

// EstimateTokens gives a rough token count from the word count. French prose
// runs a little above one token per word (about 7 tokens per 5 words).
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	return max(1, words*7/5)
}
