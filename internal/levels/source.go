package levels

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/vovakirdan/jellystone/internal/telemetry"
)

// PredefinedCount is the number of built-in levels.
const PredefinedCount = 10

//go:embed builtin/*.txt
var builtinFS embed.FS

// Source supplies predefined levels by 1-based index.
type Source interface {
	// Count is the number of predefined levels; indexes above it are generated.
	Count() int
	Load(ctx context.Context, index int) (*Layout, error)
}

// FSSource reads levelN.txt or levelN.yaml files from a filesystem.
type FSSource struct {
	fsys  fs.FS
	label string
	opts  Options
	count int
}

// Builtin returns the embedded predefined levels.
func Builtin(opts Options) *FSSource {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		// Only fails for an invalid literal path.
		panic(err)
	}
	return &FSSource{fsys: sub, label: "builtin", opts: opts, count: PredefinedCount}
}

// Dir returns a source over a directory of level files. The level count is
// the length of the contiguous run level1, level2, ... present in dir.
func Dir(dir string, opts Options) (*FSSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("levels: open dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("levels: %s is not a directory", dir)
	}
	return NewFSSource(os.DirFS(dir), dir, opts), nil
}

// NewFSSource wraps any fs.FS holding level files.
func NewFSSource(fsys fs.FS, label string, opts Options) *FSSource {
	s := &FSSource{fsys: fsys, label: label, opts: opts}
	for {
		if _, _, err := s.find(s.count + 1); err != nil {
			break
		}
		s.count++
	}
	return s
}

// Count implements Source.
func (s *FSSource) Count() int {
	return s.count
}

// Label describes where the levels come from.
func (s *FSSource) Label() string {
	return s.label
}

// find locates the file for index, preferring the text format.
func (s *FSSource) find(index int) (name string, yamlFormat bool, err error) {
	base := fmt.Sprintf("level%d", index)
	candidates := []struct {
		name string
		yaml bool
	}{
		{base + ".txt", false},
		{base + ".yaml", true},
		{base + ".yml", true},
	}
	for _, c := range candidates {
		if _, statErr := fs.Stat(s.fsys, c.name); statErr == nil {
			return c.name, c.yaml, nil
		}
	}
	return "", false, ErrLevelNotFound
}

// Load implements Source.
func (s *FSSource) Load(ctx context.Context, index int) (*Layout, error) {
	_, span := telemetry.Tracer("levels").Start(ctx, "levels.load")
	defer span.End()
	span.SetAttributes(
		attribute.Int("level.index", index),
		attribute.String("level.source", s.label),
	)

	layout, err := s.load(index)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "level load failed")
		return nil, err
	}

	c := layout.Counts()
	span.SetAttributes(
		attribute.Int("level.baskets", c.Baskets),
		attribute.Int("level.patrollers", c.Patrollers),
		attribute.Int("level.warnings", len(layout.Warnings)),
	)
	return layout, nil
}

func (s *FSSource) load(index int) (*Layout, error) {
	name, isYAML, err := s.find(index)
	if err != nil {
		return nil, &LevelLoadError{Index: index, Source: s.label, Err: err}
	}

	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = ErrLevelNotFound
		}
		return nil, &LevelLoadError{Index: index, Source: path.Join(s.label, name), Err: err}
	}

	var layout *Layout
	if isYAML {
		layout, err = ParseYAML(index, data, s.opts)
	} else {
		layout, err = ParseRows(index, defaultName(index), SplitRows(data), s.opts)
	}
	if err != nil {
		return nil, &LevelLoadError{Index: index, Source: path.Join(s.label, name), Err: err}
	}
	return layout, nil
}

// limited caps the number of predefined levels a source reports.
type limited struct {
	Source
	n int
}

// Limit returns src with at most n predefined levels. Indexes past n are
// left to the generator. n <= 0 or n >= src.Count() returns src unchanged.
func Limit(src Source, n int) Source {
	if n <= 0 || n >= src.Count() {
		return src
	}
	return limited{Source: src, n: n}
}

func (l limited) Count() int {
	return l.n
}

func (l limited) Load(ctx context.Context, index int) (*Layout, error) {
	if index > l.n {
		return nil, &LevelLoadError{Index: index, Source: "limit", Err: ErrLevelNotFound}
	}
	return l.Source.Load(ctx, index)
}
