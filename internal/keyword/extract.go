// Package keyword ranks phrases found in free-text documents.
package keyword

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/KaramelBytes/sheetbrief/internal/normalize"
	"github.com/KaramelBytes/sheetbrief/internal/tokenize"
)

// KeywordCount is a canonical phrase and how often it occurred.
type KeywordCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Extractor is immutable after New and safe for concurrent use.
type Extractor struct {
	tok    *tokenize.Tokenizer
	norm   *normalize.Normalizer
	suffix map[string]struct{}
	pairs  map[Pair]struct{}
	merges []MergeRule
}

// New builds an Extractor. Nil tok or norm select the package defaults.
func New(tok *tokenize.Tokenizer, norm *normalize.Normalizer, rules Rules) *Extractor {
	if tok == nil {
		tok = tokenize.New(tokenize.Options{})
	}
	if norm == nil {
		norm = normalize.Default()
	}
	e := &Extractor{
		tok:    tok,
		norm:   norm,
		suffix: make(map[string]struct{}, len(rules.JoinSuffixes)),
		pairs:  make(map[Pair]struct{}, len(rules.Combinations)),
		merges: append([]MergeRule(nil), rules.Merges...),
	}
	for _, s := range rules.JoinSuffixes {
		e.suffix[s] = struct{}{}
	}
	for _, p := range rules.Combinations {
		e.pairs[p] = struct{}{}
	}
	return e
}

// counter accumulates counts and remembers first-seen order.
type counter struct {
	order []string
	n     map[string]int
}

func newCounter() *counter { return &counter{n: map[string]int{}} }

func (c *counter) add(key string, v int) {
	if _, ok := c.n[key]; !ok {
		c.order = append(c.order, key)
	}
	c.n[key] += v
}

// Extract returns the topN phrases of docs, highest count first. Equal
// counts keep the order in which the phrase was first produced.
func (e *Extractor) Extract(docs []string, topN int) []KeywordCount {
	if topN <= 0 {
		return nil
	}
	raw := newCounter()
	for _, d := range docs {
		if strings.TrimSpace(d) == "" {
			continue
		}
		for _, phrase := range e.combine(e.filter(e.tok.Tokenize(d))) {
			raw.add(phrase, 1)
		}
	}
	if len(raw.order) == 0 {
		return nil
	}

	merged := newCounter()
	for _, phrase := range raw.order {
		merged.add(e.canonical(phrase), raw.n[phrase])
	}

	out := make([]KeywordCount, 0, len(merged.order))
	for _, k := range merged.order {
		out = append(out, KeywordCount{Name: k, Count: merged.n[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

// canonical normalizes phrase and applies the first merge rule whose
// required keywords all occur in it.
func (e *Extractor) canonical(phrase string) string {
	n := e.norm.Normalize(phrase)
	for _, m := range e.merges {
		if len(m.Required) == 0 {
			continue
		}
		hit := true
		for _, req := range m.Required {
			if !strings.Contains(n, req) {
				hit = false
				break
			}
		}
		if hit {
			return m.Target
		}
	}
	return n
}

func (e *Extractor) filter(toks []string) []string {
	out := toks[:0]
	for _, t := range toks {
		if utf8.RuneCountInString(t) <= 1 || allDigits(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// combine joins a token with a following join suffix or a registered pair.
func (e *Extractor) combine(toks []string) []string {
	out := make([]string, 0, len(toks))
	for i := 0; i < len(toks); {
		if i+1 < len(toks) {
			next := toks[i+1]
			_, isSuffix := e.suffix[next]
			_, isPair := e.pairs[Pair{toks[i], next}]
			if isSuffix || isPair {
				out = append(out, toks[i]+" "+next)
				i += 2
				continue
			}
		}
		out = append(out, toks[i])
		i++
	}
	return out
}

func allDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
