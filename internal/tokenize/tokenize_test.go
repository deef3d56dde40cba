package tokenize

import (
	"errors"
	"reflect"
	"testing"
)

type failingSegmenter struct{}

func (failingSegmenter) Segment(string) ([]string, error) {
	return nil, errors.New("backend unavailable")
}

type fixedSegmenter []string

func (f fixedSegmenter) Segment(string) ([]string, error) { return f, nil }

func TestTokenize_RegexDefault(t *testing.T) {
	tk := New(Options{})
	got := tk.Tokenize("결제 오류, 카드 승인 실패!")
	want := []string{"결제오류", "카드승인실패"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if got := tk.Tokenize(""); len(got) != 0 {
		t.Fatalf("empty input should give no tokens, got %v", got)
	}
	if got := tk.Tokenize(" \t\n"); len(got) != 0 {
		t.Fatalf("whitespace input should give no tokens, got %v", got)
	}
}

func TestTokenize_IgnoresSpacing(t *testing.T) {
	tk := New(Options{})
	a := tk.Tokenize("예약 확인")
	b := tk.Tokenize("예약확인")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("spacing changed tokens: %v vs %v", a, b)
	}
}

func TestTokenize_FiltersStopwordsAndShortTokens(t *testing.T) {
	tk := New(Options{Segmenter: fixedSegmenter{"예약", "문의", "a", "중", "환불"}})
	got := tk.Tokenize("whatever")
	want := []string{"예약", "환불"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestTokenize_SegmenterFailureFallsBack(t *testing.T) {
	tk := New(Options{Segmenter: failingSegmenter{}})
	got := tk.Tokenize("로그인 실패")
	if !reflect.DeepEqual(got, []string{"로그인실패"}) {
		t.Fatalf("got %v", got)
	}
}

func TestLexiconSegmenter(t *testing.T) {
	seg, err := NewLexiconSegmenter([]string{"예약", "확인", "문의", "예약확인", "결제"})
	if err != nil {
		t.Fatalf("NewLexiconSegmenter: %v", err)
	}
	got, err := seg.Segment("예약확인문의합니다")
	if err != nil {
		t.Fatalf("Segment: %v", err)
	}
	want := []string{"예약확인", "문의", "합니다"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	got, _ = seg.Segment("카드결제취소")
	if !reflect.DeepEqual(got, []string{"카드", "결제", "취소"}) {
		t.Fatalf("got %v", got)
	}
	if _, err := seg.Segment("\xff"); !errors.Is(err, ErrInvalidText) {
		t.Fatalf("expected ErrInvalidText, got %v", err)
	}
	if _, err := NewLexiconSegmenter([]string{""}); err == nil {
		t.Fatalf("expected error for empty lexicon")
	}
}

func TestTokenize_LexiconBackend(t *testing.T) {
	seg, _ := NewLexiconSegmenter([]string{"예약", "확인", "문의", "합니다"})
	tk := New(Options{Segmenter: seg})
	got := tk.Tokenize("예약 확인 문의합니다")
	if !reflect.DeepEqual(got, []string{"예약"}) {
		t.Fatalf("got %v", got)
	}
}
