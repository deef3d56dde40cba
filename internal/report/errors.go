package report

import "errors"

// Sentinels distinguishing cumulative failures. Match them with errors.Is.
var (
	ErrNoDateAxis       = errors.New("no date axis")
	ErrNoNumericColumns = errors.New("no numeric columns")
)

// AxisError is a user-facing cumulative report failure.
type AxisError struct {
	Kind    error
	Message string
}

func (e *AxisError) Error() string {
	if e == nil {
		return "axis error"
	}
	return e.Message
}

func (e *AxisError) Unwrap() error { return e.Kind }

func noDateAxis() error {
	return &AxisError{Kind: ErrNoDateAxis, Message: "누적 리포트: 날짜 컬럼을 찾을 수 없습니다."}
}

func noNumericColumns() error {
	return &AxisError{Kind: ErrNoNumericColumns, Message: "숫자형 컬럼을 찾을 수 없습니다."}
}
