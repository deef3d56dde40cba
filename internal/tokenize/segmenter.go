package tokenize

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

// Segmenter splits whitespace-free text into word-like units. Implementations
// may fail; the Tokenizer then falls back to RegexSegmenter.
type Segmenter interface {
	Segment(text string) ([]string, error)
}

// ErrInvalidText is returned by segmenters that refuse malformed UTF-8.
var ErrInvalidText = errors.New("segment: invalid utf-8 text")

var wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// RegexSegmenter returns maximal runs of letters, digits and underscores.
type RegexSegmenter struct{}

// Segment never fails.
func (RegexSegmenter) Segment(text string) ([]string, error) {
	return wordRun.FindAllString(text, -1), nil
}

// LexiconSegmenter splits each letter run by greedy longest match against a
// word list. Characters not covered by any word are grouped into a single
// leftover unit between matches.
type LexiconSegmenter struct {
	words  map[string]struct{}
	maxLen int
}

// NewLexiconSegmenter builds a segmenter from words. Empty entries are
// ignored; at least one non-empty word is required.
func NewLexiconSegmenter(words []string) (*LexiconSegmenter, error) {
	s := &LexiconSegmenter{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		if n == 0 {
			continue
		}
		s.words[w] = struct{}{}
		if n > s.maxLen {
			s.maxLen = n
		}
	}
	if len(s.words) == 0 {
		return nil, errors.New("lexicon segmenter: empty word list")
	}
	return s, nil
}

// Segment applies the longest match to every regex run of text.
func (s *LexiconSegmenter) Segment(text string) ([]string, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidText
	}
	var out []string
	for _, run := range wordRun.FindAllString(text, -1) {
		out = s.splitRun([]rune(run), out)
	}
	return out, nil
}

func (s *LexiconSegmenter) splitRun(r []rune, out []string) []string {
	start := -1 // beginning of the pending leftover unit
	for i := 0; i < len(r); {
		n := s.longestAt(r, i)
		if n == 0 {
			if start < 0 {
				start = i
			}
			i++
			continue
		}
		if start >= 0 {
			out = append(out, string(r[start:i]))
			start = -1
		}
		out = append(out, string(r[i:i+n]))
		i += n
	}
	if start >= 0 {
		out = append(out, string(r[start:]))
	}
	return out
}

func (s *LexiconSegmenter) longestAt(r []rune, i int) int {
	limit := s.maxLen
	if rest := len(r) - i; rest < limit {
		limit = rest
	}
	for n := limit; n > 0; n-- {
		if _, ok := s.words[string(r[i:i+n])]; ok {
			return n
		}
	}
	return 0
}
