package keyword

// Pair is an adjacent token pair that is joined into one phrase.
type Pair struct {
	First  string `yaml:"first" json:"first"`
	Second string `yaml:"second" json:"second"`
}

// MergeRule folds every phrase containing all Required keywords into Target.
// Optional keywords document typical companions and do not affect matching.
type MergeRule struct {
	Target   string   `yaml:"target" json:"target"`
	Required []string `yaml:"required" json:"required"`
	Optional []string `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// Rules holds the token combination and merge tables.
type Rules struct {
	JoinSuffixes []string    `yaml:"join_suffixes" json:"join_suffixes"`
	Combinations []Pair      `yaml:"combinations" json:"combinations"`
	Merges       []MergeRule `yaml:"merges" json:"merges"`
}

// DefaultRules returns the built-in tables.
func DefaultRules() Rules {
	return Rules{
		JoinSuffixes: []string{"여부", "문의", "확인", "요청", "변경", "오류"},
		Combinations: []Pair{
			{"취소", "환불"},
			{"취소", "요청"},
			{"예약", "확인"},
			{"특가", "종료"},
			{"확정", "여부"},
		},
		Merges: []MergeRule{
			{Target: "확정 관련 먹통", Required: []string{"확정", "먹통"}, Optional: []string{"버튼", "페이지", "등"}},
			{Target: "로그인 오류", Required: []string{"로그인"}, Optional: []string{"오류", "세션", "접속", "실패"}},
			{Target: "사이트 오류", Required: []string{"사이트"}, Optional: []string{"오류", "접속불가", "서버", "에러"}},
			{Target: "앱 오류", Required: []string{"앱"}, Optional: []string{"오류", "모바일", "어플", "업데이트", "에러"}},
			{Target: "결제/환불 오류", Required: []string{"결제"}, Optional: []string{"오류", "환불", "카드", "수수료", "쿠폰", "마일리지", "에러"}},
		},
	}
}

// Vocabulary lists every word the tables mention, for dictionary segmenters.
func (r Rules) Vocabulary() []string {
	var out []string
	out = append(out, r.JoinSuffixes...)
	for _, p := range r.Combinations {
		out = append(out, p.First, p.Second)
	}
	for _, m := range r.Merges {
		out = append(out, m.Required...)
		out = append(out, m.Optional...)
	}
	return out
}
