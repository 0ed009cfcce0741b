package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Match tiers, best first.
const (
	tierSubstring = iota // whole query appears in a field
	tierToken            // every query token is a prefix or substring of some field token
	tierFuzzy            // typo-tolerant token match within the threshold
)

type field struct {
	text   string
	tokens []string
}

type entry struct {
	fields []field
}

type hit struct {
	pos   int
	tier  int
	score float64
}

func newEntry(p Product) entry {
	raw := []string{p.Name, p.Code, p.Category, p.Description}
	e := entry{fields: make([]field, 0, len(raw))}
	for _, r := range raw {
		text := normalizeQuery(r)
		if text == "" {
			continue
		}
		e.fields = append(e.fields, field{text: text, tokens: tokenize(text)})
	}
	return e
}

// normalizeQuery lowercases and collapses whitespace.
func normalizeQuery(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// match scores e against a normalized query. ok is false when no field is
// within threshold.
func (e entry) match(query string, qTokens []string, threshold float64) (tier int, score float64, ok bool) {
	tier, score = tierFuzzy, 1.0
	for _, f := range e.fields {
		if strings.Contains(f.text, query) {
			return tierSubstring, 0, true
		}
		if len(qTokens) == 0 || len(f.tokens) == 0 {
			continue
		}
		total := 0.0
		for _, qt := range qTokens {
			best := 1.0
			for _, ft := range f.tokens {
				if s := tokenScore(qt, ft); s < best {
					best = s
					if best == 0 {
						break
					}
				}
			}
			total += best
		}
		avg := total / float64(len(qTokens))
		t := tierFuzzy
		if avg == 0 {
			t = tierToken
		}
		if t < tier || (t == tier && avg < score) {
			tier, score = t, avg
		}
	}
	return tier, score, score <= threshold
}

// tokenScore is 0 for a prefix/substring hit and otherwise a normalized edit
// distance in [0,1].
func tokenScore(qt, ft string) float64 {
	if strings.Contains(ft, qt) {
		return 0
	}
	qLen := utf8.RuneCountInString(qt)
	fLen := utf8.RuneCountInString(ft)

	score := float64(levenshtein.ComputeDistance(qt, ft)) / float64(max(qLen, fLen))

	// Partially typed words: compare against the field token's prefix.
	if fLen > qLen {
		prefix := string([]rune(ft)[:qLen])
		if s := float64(levenshtein.ComputeDistance(qt, prefix)) / float64(qLen); s < score {
			score = s
		}
	}

	// Abbreviations such as "cnfrnc" are subsequences of the field token.
	if rank := fuzzy.RankMatchFold(qt, ft); rank >= 0 {
		if s := 0.5 * float64(rank) / float64(fLen); s < score {
			score = s
		}
	}
	return score
}
