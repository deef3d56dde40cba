package normalize

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies a rule group. Groups are evaluated in the order
// exact, keyword, combination, single, bracket regardless of the order rules
// appear in a table.
type Kind string

const (
	KindExact       Kind = "exact"
	KindKeyword     Kind = "keyword"
	KindCombination Kind = "combination"
	KindSingle      Kind = "single"
	KindBracket     Kind = "bracket"
)

// groupOrder is the fixed evaluation sequence.
var groupOrder = []Kind{KindExact, KindKeyword, KindCombination, KindSingle, KindBracket}

// Rule is one normalization rule.
//
//   - exact: Keywords are variant spellings compared case and whitespace
//     insensitively; a match yields Canonical.
//   - keyword: every keyword must be a substring of the lower-cased,
//     whitespace-free value. Lower Priority runs first.
//   - combination: like keyword but without priority ordering.
//   - single: Keywords[0] is a substring of the whitespace-free value.
//   - bracket: a keyword plus an opening bracket yields the bare keyword.
//     Canonical is ignored.
type Rule struct {
	Kind      Kind     `yaml:"kind" json:"kind"`
	Canonical string   `yaml:"canonical,omitempty" json:"canonical,omitempty"`
	Keywords  []string `yaml:"keywords" json:"keywords"`
	Priority  int      `yaml:"priority,omitempty" json:"priority,omitempty"`
}

// RuleTable is an ordered, inspectable list of rules.
type RuleTable struct {
	Rules []Rule `yaml:"rules" json:"rules"`
}

// DefaultPriority is used by AddRule callers that do not care about ordering
// inside the keyword group.
const DefaultPriority = 10

// DefaultRules returns the built-in reservation-inquiry rule table.
func DefaultRules() RuleTable {
	return RuleTable{Rules: []Rule{
		{Kind: KindExact, Canonical: "SNS", Keywords: []string{"sns", "s.n.s", "에스엔에스"}},
		{Kind: KindExact, Canonical: "가능여부", Keywords: []string{"가능여부", "가능 여부"}},
		{Kind: KindExact, Canonical: "환불여부", Keywords: []string{"환불여부", "환불 여부"}},

		{Kind: KindKeyword, Canonical: "예약확정문의", Keywords: []string{"문의", "확정"}, Priority: 1},
		{Kind: KindKeyword, Canonical: "예약확인문의", Keywords: []string{"문의", "예약확인"}, Priority: 2},
		{Kind: KindKeyword, Canonical: "예약확인문의", Keywords: []string{"문의", "예약됐는지"}, Priority: 2},
		{Kind: KindKeyword, Canonical: "예약확인문의", Keywords: []string{"문의", "예약되었는지"}, Priority: 2},
		{Kind: KindKeyword, Canonical: "예약확인문의", Keywords: []string{"문의", "잘예약"}, Priority: 2},
		{Kind: KindKeyword, Canonical: "예약확인문의", Keywords: []string{"문의", "예약완료"}, Priority: 2},

		{Kind: KindCombination, Canonical: "사이트내 이벤트", Keywords: []string{"사이트", "이벤트"}},
		{Kind: KindCombination, Canonical: "포털 검색", Keywords: []string{"포털", "검색"}},
		{Kind: KindCombination, Canonical: "지인추천", Keywords: []string{"지인", "추천"}},
		{Kind: KindCombination, Canonical: "예약확정문의", Keywords: []string{"확정", "여부"}},

		{Kind: KindSingle, Canonical: "줌줌투어", Keywords: []string{"줌줌투어"}},

		{Kind: KindBracket, Keywords: []string{"광고"}},
	}}
}

// AddRule returns a copy of t with one more rule appended.
func (t RuleTable) AddRule(kind Kind, canonical string, keywords []string, priority int) (RuleTable, error) {
	r := Rule{Kind: kind, Canonical: canonical, Keywords: append([]string(nil), keywords...), Priority: priority}
	if err := r.validate(); err != nil {
		return t, err
	}
	out := RuleTable{Rules: make([]Rule, 0, len(t.Rules)+1)}
	out.Rules = append(out.Rules, t.Rules...)
	out.Rules = append(out.Rules, r)
	return out, nil
}

// Validate checks every rule in the table.
func (t RuleTable) Validate() error {
	for i, r := range t.Rules {
		if err := r.validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

func (r Rule) validate() error {
	switch r.Kind {
	case KindExact, KindKeyword, KindCombination, KindSingle:
		if strings.TrimSpace(r.Canonical) == "" {
			return fmt.Errorf("%s rule needs a canonical value", r.Kind)
		}
	case KindBracket:
	default:
		return fmt.Errorf("unknown rule kind %q", r.Kind)
	}
	if len(r.Keywords) == 0 {
		return fmt.Errorf("%s rule %q has no keywords", r.Kind, r.Canonical)
	}
	for _, k := range r.Keywords {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%s rule %q has an empty keyword", r.Kind, r.Canonical)
		}
	}
	return nil
}

// Group returns the rules of one kind in evaluation order. Keyword rules are
// stably sorted by priority.
func (t RuleTable) Group(kind Kind) []Rule {
	var out []Rule
	for _, r := range t.Rules {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	if kind == KindKeyword {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	}
	return out
}

// Vocabulary lists every keyword and canonical label once, in table order.
func (t RuleTable) Vocabulary() []string {
	seen := map[string]struct{}{}
	var out []string
	add := func(s string) {
		s = stripSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, r := range t.Rules {
		for _, k := range r.Keywords {
			add(k)
		}
		add(r.Canonical)
	}
	return out
}
