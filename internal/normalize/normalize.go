// Package normalize maps raw categorical values and tokens onto canonical
// labels through an ordered rule table. The first matching rule wins.
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer applies a compiled RuleTable. It is safe for concurrent use.
type Normalizer struct {
	exact       []compiledExact
	keyword     []Rule
	combination []Rule
	single      []Rule
	bracket     []string
}

type compiledExact struct {
	canonical string
	variants  map[string]struct{}
}

// New compiles t. The table is copied; later changes to t have no effect.
func New(t RuleTable) *Normalizer {
	n := &Normalizer{
		keyword:     canonicalize(t.Group(KindKeyword)),
		combination: canonicalize(t.Group(KindCombination)),
		single:      canonicalize(t.Group(KindSingle)),
	}
	for _, r := range t.Group(KindExact) {
		ce := compiledExact{canonical: r.Canonical, variants: map[string]struct{}{}}
		for _, v := range r.Keywords {
			ce.variants[strings.ToLower(stripSpace(nfc(v)))] = struct{}{}
		}
		n.exact = append(n.exact, ce)
	}
	for _, r := range t.Group(KindBracket) {
		for _, k := range r.Keywords {
			n.bracket = append(n.bracket, stripSpace(nfc(k)))
		}
	}
	return n
}

// Default returns the shared normalizer built from DefaultRules.
var Default = sync.OnceValue(func() *Normalizer { return New(DefaultRules()) })

// Normalize returns the canonical form of value. An input that is blank
// after trimming returns "". Values no rule claims come back with all
// whitespace removed, so Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(value string) string {
	val := strings.TrimSpace(nfc(value))
	if val == "" {
		return ""
	}
	noSpace := stripSpace(val)
	lower := strings.ToLower(noSpace)

	for _, e := range n.exact {
		if _, ok := e.variants[lower]; ok {
			return e.canonical
		}
	}
	for _, r := range n.keyword {
		if containsAll(lower, r.Keywords) {
			return r.Canonical
		}
	}
	for _, r := range n.combination {
		if containsAll(lower, r.Keywords) {
			return r.Canonical
		}
	}
	for _, r := range n.single {
		if strings.Contains(noSpace, r.Keywords[0]) {
			return r.Canonical
		}
	}
	for _, k := range n.bracket {
		if !strings.Contains(noSpace, k) {
			continue
		}
		if strings.ContainsAny(val, "(（") {
			return k
		}
		return val
	}
	return noSpace
}

func containsAll(s string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(s, k) {
			return false
		}
	}
	return true
}

// canonicalize lower-cases and strips keyword spellings so they compare
// against the prepared value.
func canonicalize(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		kws := make([]string, len(r.Keywords))
		for j, k := range r.Keywords {
			k = stripSpace(nfc(k))
			if r.Kind != KindSingle {
				k = strings.ToLower(k)
			}
			kws[j] = k
		}
		r.Keywords = kws
		out[i] = r
	}
	return out
}

func nfc(s string) string {
	return norm.NFC.String(s)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
