package levels

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/vovakirdan/jellystone/internal/core"
	"github.com/vovakirdan/jellystone/internal/world"
)

func TestBuiltinLevels(t *testing.T) {
	src := Builtin(Options{Rows: 13, Cols: 13, Strict: true})
	if src.Count() != PredefinedCount {
		t.Fatalf("expected %d levels, got %d", PredefinedCount, src.Count())
	}

	ctx := context.Background()
	for i := 1; i <= src.Count(); i++ {
		l, err := src.Load(ctx, i)
		if err != nil {
			t.Fatalf("level %d: %v", i, err)
		}
		if l.Baskets.Empty() {
			t.Errorf("level %d has no baskets", i)
		}
		if !l.HasStart {
			t.Errorf("level %d has no player start", i)
		}
		if !l.Grid.IsWalkable(l.Start) {
			t.Errorf("level %d starts on terrain", i)
		}
		if world.AnyTouching(l.Start, l.Patrollers) {
			t.Errorf("level %d starts next to a patroller", i)
		}
	}
}

func TestBuiltinLevelOne(t *testing.T) {
	l, err := Builtin(DefaultOptions()).Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if l.Start != core.P(10, 6) {
		t.Errorf("unexpected start %v", l.Start)
	}
	if l.Baskets.Len() != 4 {
		t.Errorf("expected 4 baskets, got %d", l.Baskets.Len())
	}
	if len(l.Patrollers) != 1 || l.Patrollers[0].Pos != core.P(5, 6) {
		t.Errorf("unexpected patrollers %+v", l.Patrollers)
	}
}

func TestFSSourceNotFound(t *testing.T) {
	src := NewFSSource(fstest.MapFS{}, "empty", DefaultOptions())
	if src.Count() != 0 {
		t.Errorf("expected 0 levels, got %d", src.Count())
	}

	_, err := src.Load(context.Background(), 1)
	if !errors.Is(err, ErrLevelNotFound) {
		t.Fatalf("expected ErrLevelNotFound, got %v", err)
	}
	var lerr *LevelLoadError
	if !errors.As(err, &lerr) || lerr.Index != 1 {
		t.Errorf("expected LevelLoadError for index 1, got %v", err)
	}
}

func TestFSSourceFormats(t *testing.T) {
	fsys := fstest.MapFS{
		"level1.txt":  {Data: []byte("B.Y\n")},
		"level2.yaml": {Data: []byte("name: Two\nbaskets: [{row: 0, col: 0}]\n")},
		"level3.yml":  {Data: []byte("baskets: [{row: 1, col: 1}]\n")},
		"level5.txt":  {Data: []byte("B\n")},
	}
	src := NewFSSource(fsys, "mem", DefaultOptions())
	if src.Count() != 3 {
		t.Fatalf("count should stop at the first gap, got %d", src.Count())
	}

	ctx := context.Background()
	two, err := src.Load(ctx, 2)
	if err != nil {
		t.Fatalf("Load(2) failed: %v", err)
	}
	if two.Name != "Two" {
		t.Errorf("unexpected name %q", two.Name)
	}
	if _, err := src.Load(ctx, 3); err != nil {
		t.Errorf("Load(3) failed: %v", err)
	}
}

func TestFSSourceStrictError(t *testing.T) {
	fsys := fstest.MapFS{"level1.txt": {Data: []byte("B?Y\n")}}
	_, err := NewFSSource(fsys, "mem", Options{Rows: 13, Cols: 13, Strict: true}).Load(context.Background(), 1)
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("expected ErrUnknownSymbol, got %v", err)
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "level1.txt"), []byte("..B\nY..\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := Dir(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("Dir failed: %v", err)
	}
	if src.Count() != 1 {
		t.Errorf("expected 1 level, got %d", src.Count())
	}
	l, err := src.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if l.Start != core.P(1, 0) {
		t.Errorf("unexpected start %v", l.Start)
	}

	if _, err := Dir(filepath.Join(dir, "missing"), DefaultOptions()); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestLimit(t *testing.T) {
	src := Builtin(DefaultOptions())

	if Limit(src, 0) != Source(src) {
		t.Error("Limit(0) should return the source unchanged")
	}
	if Limit(src, 20) != Source(src) {
		t.Error("a limit above Count should return the source unchanged")
	}

	capped := Limit(src, 3)
	if capped.Count() != 3 {
		t.Fatalf("expected 3 levels, got %d", capped.Count())
	}
	if _, err := capped.Load(context.Background(), 3); err != nil {
		t.Errorf("level 3 should load: %v", err)
	}
	_, err := capped.Load(context.Background(), 4)
	if !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("expected ErrLevelNotFound past the limit, got %v", err)
	}
}
