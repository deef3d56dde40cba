package report

import (
	"fmt"
	"math"
)

// ChangeStatus classifies a period-over-period change.
type ChangeStatus string

const (
	StatusIncrease ChangeStatus = "increase"
	StatusDecrease ChangeStatus = "decrease"
	StatusNeutral  ChangeStatus = "neutral"
	// StatusNew marks a value that was zero in the previous period.
	StatusNew ChangeStatus = "new"
)

// Change is a classified difference between two counts. Percent is the
// signed change rounded half to even; it is 0 for StatusNew.
type Change struct {
	Status  ChangeStatus
	Percent int
	Text    string
}

// Compare classifies current against previous. Changes within ±threshold
// percent are neutral.
func Compare(current, previous int, threshold float64) Change {
	if previous > 0 {
		pct := float64(current-previous) / float64(previous) * 100
		rounded := int(math.RoundToEven(pct))
		switch {
		case pct > threshold:
			return Change{Status: StatusIncrease, Percent: rounded, Text: fmt.Sprintf("%d%% 증가", rounded)}
		case pct < -threshold:
			return Change{Status: StatusDecrease, Percent: rounded, Text: fmt.Sprintf("%d%% 감소", -rounded)}
		}
		return Change{Status: StatusNeutral, Percent: rounded, Text: "변동 없음"}
	}
	if current > 0 {
		return Change{Status: StatusNew, Text: "신규 발생"}
	}
	return Change{Status: StatusNeutral, Text: "변동 없음"}
}
