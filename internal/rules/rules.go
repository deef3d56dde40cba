// Package rules loads the domain rule tables from YAML and assembles the
// text-processing engine built on them.
package rules

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/sheetbrief/internal/keyword"
	"github.com/KaramelBytes/sheetbrief/internal/normalize"
	"github.com/KaramelBytes/sheetbrief/internal/tokenize"
)

// Tokenizer backends.
const (
	BackendRegex   = "regex"
	BackendLexicon = "lexicon"
)

// File is the on-disk rule set. Sections left out of a file keep their
// built-in values.
type File struct {
	Normalize normalize.RuleTable `yaml:"normalize"`
	Keywords  keyword.Rules       `yaml:"keywords"`
	Stopwords []string            `yaml:"stopwords"`
}

// Default returns the built-in rule set.
func Default() File {
	return File{
		Normalize: normalize.DefaultRules(),
		Keywords:  keyword.DefaultRules(),
		Stopwords: tokenize.DefaultStopwords(),
	}
}

// Load reads a YAML rule file on top of the defaults. An empty path returns
// Default().
func Load(path string) (File, error) {
	f := Default()
	if path == "" {
		return f, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read rules: %w", err)
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("parse rules %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return File{}, fmt.Errorf("invalid rules %s: %w", path, err)
	}
	return f, nil
}

// Validate checks the normalize and merge tables.
func (f File) Validate() error {
	if err := f.Normalize.Validate(); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	for i, m := range f.Keywords.Merges {
		if strings.TrimSpace(m.Target) == "" {
			return fmt.Errorf("merge rule %d: empty target", i)
		}
		if len(m.Required) == 0 {
			return fmt.Errorf("merge rule %q: no required keywords", m.Target)
		}
	}
	for i, p := range f.Keywords.Combinations {
		if p.First == "" || p.Second == "" {
			return fmt.Errorf("combination %d: both tokens are required", i)
		}
	}
	return nil
}

// Marshal renders f as YAML.
func (f File) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal rules: %w", err)
	}
	return b, nil
}

// Lexicon is the dictionary used by the lexicon tokenizer backend.
func (f File) Lexicon() []string {
	var words []string
	words = append(words, f.Normalize.Vocabulary()...)
	words = append(words, f.Keywords.Vocabulary()...)
	words = append(words, f.Stopwords...)
	return words
}

// Engine bundles the immutable text-processing components built from one
// rule set. It can be shared across concurrent reports.
type Engine struct {
	Normalizer *normalize.Normalizer
	Tokenizer  *tokenize.Tokenizer
	Extractor  *keyword.Extractor
}

// EngineOptions selects the tokenizer backend and token length floor.
type EngineOptions struct {
	Backend   string
	MinLength int
	Logger    *zap.Logger
}

// Engine compiles f.
func (f File) Engine(opt EngineOptions) (*Engine, error) {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var seg tokenize.Segmenter
	switch strings.ToLower(strings.TrimSpace(opt.Backend)) {
	case "", BackendRegex:
		seg = tokenize.RegexSegmenter{}
	case BackendLexicon:
		lx, err := tokenize.NewLexiconSegmenter(f.Lexicon())
		if err != nil {
			return nil, err
		}
		seg = lx
	default:
		return nil, fmt.Errorf("unknown tokenizer backend %q (use %s or %s)", opt.Backend, BackendRegex, BackendLexicon)
	}
	stop := f.Stopwords
	if stop == nil {
		stop = []string{}
	}
	n := normalize.New(f.Normalize)
	tok := tokenize.New(tokenize.Options{
		Segmenter: seg,
		Stopwords: stop,
		MinLength: opt.MinLength,
		Logger:    log.Named("tokenize"),
	})
	return &Engine{
		Normalizer: n,
		Tokenizer:  tok,
		Extractor:  keyword.New(tok, n, f.Keywords),
	}, nil
}
