// Package score assigns relevance scores to posting titles and summaries.
package score

import (
	"slices"
)

const titleBonus = 2

type wordSet map[string]struct{}

// newWordSet keeps only single-token words; a phrase can never equal a token.
func newWordSet(words []string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		if toks := Tokenize(w); len(toks) == 1 {
			s[toks[0]] = struct{}{}
		}
	}
	return s
}

// Phrases returns the entries of words that tokenize to more than one token.
// Such entries are ignored by the scorer.
func Phrases(words []string) []string {
	var out []string
	for _, w := range words {
		if len(Tokenize(w)) > 1 {
			out = append(out, w)
		}
	}
	return out
}

func (s wordSet) has(w string) bool {
	_, ok := s[w]
	return ok
}

// Scorer scores text against configured keyword sets.
type Scorer struct {
	titleKeyword string
	positive     wordSet
	negative     wordSet
	stop         wordSet
}

// NewScorer builds a Scorer. Keywords go through the same normalization as
// the text being scored, so matching is case- and accent-insensitive.
func NewScorer(titleKeyword string, positive, negative, stopWords []string) *Scorer {
	return &Scorer{
		titleKeyword: normalize(titleKeyword),
		positive:     newWordSet(positive),
		negative:     newWordSet(negative),
		stop:         newWordSet(stopWords),
	}
}

// SummaryScore adds one point per positive keyword token and subtracts one
// per negative keyword token, after stop-words are removed.
func (s *Scorer) SummaryScore(summary string) int {
	total := 0
	for _, tok := range Tokenize(summary) {
		if s.stop.has(tok) {
			continue
		}
		switch {
		case s.positive.has(tok):
			total++
		case s.negative.has(tok):
			total--
		}
	}
	return total
}

// TitleScore rewards a title whose first two tokens or last token is the key
// term. "Senior Tax Manager" and "Manager - Tax" both score +2; a title
// without the term in those positions scores -2.
func (s *Scorer) TitleScore(title string) int {
	tokens := Tokenize(title)
	if len(tokens) == 0 {
		return -titleBonus
	}
	lead := tokens[:min(2, len(tokens))]
	if slices.Contains(lead, s.titleKeyword) || tokens[len(tokens)-1] == s.titleKeyword {
		return titleBonus
	}
	return -titleBonus
}

// Score is the combined summary and title score.
func (s *Scorer) Score(title, summary string) int {
	return s.SummaryScore(summary) + s.TitleScore(title)
}

// Keywords is a set of single-token keywords matched against text tokens.
type Keywords struct {
	set wordSet
}

// NewKeywords builds a keyword set with the scorer's normalization.
func NewKeywords(words []string) Keywords {
	return Keywords{set: newWordSet(words)}
}

// MatchAny reports whether any token of text is in the set.
func (k Keywords) MatchAny(text string) bool {
	for _, tok := range Tokenize(text) {
		if k.set.has(tok) {
			return true
		}
	}
	return false
}
