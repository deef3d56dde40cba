// Package tokenize turns free text into filtered word tokens.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// DefaultMinLength is the shortest token, in code points, that is kept.
const DefaultMinLength = 2

// DefaultStopwords returns the built-in stop-word list.
func DefaultStopwords() []string {
	return []string{
		"문의", "요청", "여부", "확인", "있나요", "있습니다", "해주세요",
		"중", "했는데", "했으나", "됩니다", "되었습니다", "합니다", "입니다",
		"하고", "에서", "으로", "하면", "그런데", "때문", "어떻게",
		"안됨", "이상", "가능", "불가",
	}
}

// Options configures a Tokenizer. Zero values select defaults.
type Options struct {
	Segmenter Segmenter
	Stopwords []string
	MinLength int
	Logger    *zap.Logger
}

// Tokenizer is immutable after New and safe for concurrent use.
type Tokenizer struct {
	seg       Segmenter
	stop      map[string]struct{}
	minLength int
	log       *zap.Logger
}

// New builds a Tokenizer. A nil Stopwords slice selects DefaultStopwords;
// pass an empty non-nil slice to disable stop-word filtering.
func New(opt Options) *Tokenizer {
	t := &Tokenizer{seg: opt.Segmenter, minLength: opt.MinLength, log: opt.Logger}
	if t.seg == nil {
		t.seg = RegexSegmenter{}
	}
	if t.minLength <= 0 {
		t.minLength = DefaultMinLength
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	words := opt.Stopwords
	if words == nil {
		words = DefaultStopwords()
	}
	t.stop = make(map[string]struct{}, len(words))
	for _, w := range words {
		t.stop[norm.NFC.String(w)] = struct{}{}
	}
	return t
}

// Tokenize removes all whitespace from text, segments it, and drops
// stop-words and tokens shorter than the minimum length.
func (t *Tokenizer) Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, norm.NFC.String(text))
	if compact == "" {
		return nil
	}
	raw, err := t.seg.Segment(compact)
	if err != nil {
		t.log.Debug("segmenter failed, using regex fallback", zap.Error(err))
		raw, _ = RegexSegmenter{}.Segment(compact)
	}
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := t.stop[tok]; stop {
			continue
		}
		if utf8.RuneCountInString(tok) < t.minLength {
			continue
		}
		out = append(out, tok)
	}
	return out
}
