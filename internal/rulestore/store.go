// Package rulestore resolves platform names to rulesets. Rulesets are read
// from an optional rules directory first, then from the defaults compiled
// into the binary, and memoized for the life of the process.
package rulestore

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/eykd/adsheet-go/internal/domain"
	"github.com/eykd/adsheet-go/internal/ruleset"
)

//go:embed defaults/*.yaml
var defaults embed.FS

// DefaultCacheSize bounds the number of memoized rulesets.
const DefaultCacheSize = 64

var extensions = []string{".yaml", ".yml"}

// source is one place rulesets are read from.
type source struct {
	fs    afero.Fs
	dir   string
	label string
}

func (s source) join(name string) string {
	if s.label == embeddedLabel {
		return path.Join(s.dir, name)
	}
	return filepath.Join(s.dir, name)
}

const embeddedLabel = "embedded"

// Store resolves and memoizes rulesets. It is safe for concurrent use.
type Store struct {
	sources   []source
	cacheSize int
	cache     *lru.Cache[string, *ruleset.RuleSet]
	log       zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithDir adds a rules directory that takes precedence over the defaults.
func WithDir(fsys afero.Fs, dir string) Option {
	return func(s *Store) {
		if dir == "" {
			return
		}
		s.sources = append(s.sources, source{fs: fsys, dir: dir, label: dir})
	}
}

// WithLogger sets the logger used for resolution events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithCacheSize sets the number of rulesets kept in memory.
func WithCacheSize(n int) Option {
	return func(s *Store) { s.cacheSize = n }
}

// New creates a Store.
func New(opts ...Option) (*Store, error) {
	s := &Store{cacheSize: DefaultCacheSize, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.sources = append(s.sources, source{fs: afero.FromIOFS{FS: defaults}, dir: "defaults", label: embeddedLabel})

	cache, err := lru.New[string, *ruleset.RuleSet](s.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating ruleset cache: %w", err)
	}
	s.cache = cache
	return s, nil
}

// Resolve returns the ruleset for platform. The name is tried as given, in
// normalized snake case and as its first word, each as .yaml then .yml. The
// rules directory is searched in full before the defaults.
func (s *Store) Resolve(platform string) (*ruleset.RuleSet, error) {
	if rs, ok := s.cache.Get(platform); ok {
		return rs, nil
	}

	var names []string
	for _, stem := range Candidates(platform) {
		for _, ext := range extensions {
			names = append(names, stem+ext)
		}
	}

	for _, src := range s.sources {
		for _, name := range names {
			rs, err := s.load(src, name)
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			if err != nil {
				return nil, err
			}
			s.log.Debug().
				Str("platform", platform).
				Str("source", rs.Source).
				Int("rules", len(rs.Rules)).
				Msg("resolved ruleset")
			s.cache.Add(platform, rs)
			return rs, nil
		}
	}
	return nil, &domain.ConfigNotFoundError{Platform: platform, Tried: names}
}

func (s *Store) load(src source, name string) (*ruleset.RuleSet, error) {
	p := src.join(name)
	data, err := afero.ReadFile(src.fs, p)
	if err != nil {
		return nil, err
	}
	label := p
	if src.label == embeddedLabel {
		label = embeddedLabel + ":" + name
	}
	return ruleset.Parse(data, label)
}

// Candidates returns the file stems tried for platform, in order and
// without duplicates. Stems that would escape the rules directory are
// dropped.
func Candidates(platform string) []string {
	name := strings.TrimSpace(platform)
	if name == "" {
		return nil
	}
	snake := SnakeCase(name)
	first := snake
	if i := strings.IndexByte(snake, '_'); i > 0 {
		first = snake[:i]
	}

	var out []string
	seen := make(map[string]bool, 3)
	for _, stem := range []string{name, snake, first} {
		if stem == "" || seen[stem] || !safeStem(stem) {
			continue
		}
		seen[stem] = true
		out = append(out, stem)
	}
	return out
}

func safeStem(stem string) bool {
	return !strings.ContainsAny(stem, `/\`) && stem != "." && stem != ".."
}

// SnakeCase normalizes a platform name: NFKC, case folded, runs of spaces,
// dashes and underscores collapsed to a single underscore.
func SnakeCase(name string) string {
	s := cases.Fold().String(norm.NFKC.String(strings.TrimSpace(name)))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '\t'
	})
	return strings.Join(fields, "_")
}

// LintResult reports the outcome of loading one ruleset file.
type LintResult struct {
	Source   string `json:"source"`
	Platform string `json:"platform,omitempty"`
	Rules    int    `json:"rules"`
	Err      error  `json:"-"`
}

// OK reports whether the file loaded cleanly.
func (r LintResult) OK() bool { return r.Err == nil }

// LintAll loads every ruleset file from every source.
func (s *Store) LintAll() ([]LintResult, error) {
	var results []LintResult
	for _, src := range s.sources {
		names, err := s.list(src)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			rs, err := s.load(src, name)
			res := LintResult{Source: src.join(name), Err: err}
			if src.label == embeddedLabel {
				res.Source = embeddedLabel + ":" + name
			}
			if rs != nil {
				res.Platform = rs.Platform
				res.Rules = len(rs.Rules)
			}
			results = append(results, res)
		}
	}
	return results, nil
}

// Platforms returns the sorted names of every platform with a loadable
// ruleset.
func (s *Store) Platforms() ([]string, error) {
	results, err := s.LintAll()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, r := range results {
		if !r.OK() || seen[r.Platform] {
			continue
		}
		seen[r.Platform] = true
		out = append(out, r.Platform)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) list(src source) ([]string, error) {
	infos, err := afero.ReadDir(src.fs, src.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Str("dir", src.dir).Msg("rules directory does not exist")
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", src.label, err)
	}
	var names []string
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(fi.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, fi.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
