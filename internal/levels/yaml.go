package levels

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/jellystone/internal/core"
)

// YAMLLevel is the YAML structure of a level file.
type YAMLLevel struct {
	Name       string          `yaml:"name"`
	Player     *core.Position  `yaml:"player,omitempty"`
	Trees      []core.Position `yaml:"trees,omitempty"`
	Mountains  []core.Position `yaml:"mountains,omitempty"`
	Baskets    []core.Position `yaml:"baskets,omitempty"`
	Patrollers []YAMLPatroller `yaml:"patrollers,omitempty"`
	Rows       []string        `yaml:"rows,omitempty"` // optional text-format body
}

// YAMLPatroller is one patroller spawn.
type YAMLPatroller struct {
	Row  int       `yaml:"row"`
	Col  int       `yaml:"col"`
	Axis core.Axis `yaml:"axis"`
}

// ParseYAML parses a YAML level. Rows, when present, are applied first and the
// coordinate lists are layered on top of them.
func ParseYAML(index int, data []byte, opts Options) (*Layout, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	name := yl.Name
	if name == "" {
		name = defaultName(index)
	}

	b := newBuilder(opts)
	if len(yl.Rows) > 0 {
		rowsLayout, err := ParseRows(index, name, yl.Rows, opts)
		if err != nil {
			return nil, err
		}
		b.absorb(rowsLayout)
	}

	for _, p := range yl.Trees {
		b.tree(p)
	}
	for _, p := range yl.Mountains {
		b.mountain(p)
	}
	for _, p := range yl.Baskets {
		b.basket(p)
	}
	for _, p := range yl.Patrollers {
		b.patroller(core.P(p.Row, p.Col), p.Axis)
	}
	if yl.Player != nil {
		b.setPlayer(*yl.Player)
	}

	return b.build(index, name)
}

// absorb feeds an already-parsed layout back into the builder.
func (b *builder) absorb(l *Layout) {
	b.trees = append(b.trees, l.Grid.Trees()...)
	b.mountains = append(b.mountains, l.Grid.Mountains()...)
	b.baskets = append(b.baskets, l.Baskets.Positions()...)
	for _, pt := range l.Patrollers {
		b.patrollers = append(b.patrollers, patrollerSpawn{pos: pt.Pos, axis: pt.Axis})
	}
	if l.HasStart {
		start := l.Start
		b.player = &start
	}
	b.warnings = append(b.warnings, l.Warnings...)
}

func defaultName(index int) string {
	return fmt.Sprintf("Level %d", index)
}
