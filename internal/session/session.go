// Package session implements the game state machine: player moves, basket
// pickup, level progression, patrol steps, collisions and game over.
//
// A Session is not safe for concurrent use. Every call must come from one
// goroutine; Runner provides that goroutine for interactive play.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vovakirdan/jellystone/internal/core"
	"github.com/vovakirdan/jellystone/internal/levels"
	"github.com/vovakirdan/jellystone/internal/telemetry"
	"github.com/vovakirdan/jellystone/internal/world"
)

// DefaultLives is the number of lives a fresh game starts with.
const DefaultLives = 3

// AnonymousName replaces blank names on saved scores.
const AnonymousName = "anonymous"

// ErrGameInProgress is returned when a score is submitted before game over.
var ErrGameInProgress = errors.New("session: game is still in progress")

// Config holds session dependencies.
type Config struct {
	Lives     int
	Source    levels.Source
	Generator *levels.Generator
	Store     ScoreStore // nil uses an in-memory store
	Logger    *log.Logger
}

// Session is the authoritative game state.
type Session struct {
	lives0 int
	source levels.Source
	gen    *levels.Generator
	store  ScoreStore
	logger *log.Logger

	state        State
	score        int
	lives        int
	elapsed      int // seconds since the current level loaded
	totalElapsed int // seconds since the game started
	level        int
	levelName    string
	generated    bool

	grid       *world.Grid
	baskets    *world.Baskets
	patrollers []world.Patroller
	player     world.Player

	runID   uuid.UUID
	version uint64
	events  []Event
}

// New creates a session. Call Start before anything else.
func New(cfg Config) (*Session, error) {
	if cfg.Source == nil {
		return nil, errors.New("session: level source is required")
	}
	if cfg.Generator == nil {
		return nil, errors.New("session: level generator is required")
	}
	if cfg.Lives <= 0 {
		cfg.Lives = DefaultLives
	}
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	p := cfg.Generator.Params()
	return &Session{
		lives0:  cfg.Lives,
		source:  cfg.Source,
		gen:     cfg.Generator,
		store:   cfg.Store,
		logger:  cfg.Logger,
		state:   StatePlaying,
		lives:   cfg.Lives,
		grid:    world.NewGrid(p.Rows, p.Cols),
		baskets: world.NewBaskets(),
		player:  world.NewPlayer(core.P(p.Rows/2, p.Cols/2)),
	}, nil
}

// Start loads the first level. It is Reset under another name.
func (s *Session) Start(ctx context.Context) error {
	return s.Reset(ctx)
}

// Reset begins a fresh game on level 1. If level 1 cannot be loaded the
// current state is kept and the error is returned and reported as a warning.
func (s *Session) Reset(ctx context.Context) error {
	ctx, span := telemetry.Tracer("session").Start(ctx, "session.reset")
	defer span.End()

	layout, err := s.loadLayout(ctx, 1)
	if err != nil {
		span.RecordError(err)
		s.warn(err, "reset failed, keeping current game")
		return err
	}

	s.score = 0
	s.lives = s.lives0
	s.totalElapsed = 0
	s.runID = uuid.New()
	s.install(layout)
	// Fresh game: patrollers wait for the first move.
	s.player.AdvancedSinceHit = false
	s.state = StatePlaying

	s.emit(Event{Kind: EventReset})
	s.emitLevelLoaded(layout)
	s.logger.Info("game reset", "run", s.runID, "level", s.level)
	return nil
}

// AttemptMove moves the player one cell. Moves into terrain or off the grid
// leave the player in place. Moves are ignored after game over.
func (s *Session) AttemptMove(ctx context.Context, dir core.Direction) {
	if s.state != StatePlaying || !dir.Valid() {
		return
	}

	candidate := s.player.Pos.Step(dir)
	if !s.grid.IsWalkable(candidate) {
		// Blocked moves still refresh proximity.
		s.checkContact()
		return
	}

	s.player.Pos = candidate
	s.touch()

	if s.baskets.Take(candidate) {
		s.score++
		s.emit(Event{Kind: EventBasketCollected, Message: candidate.String()})
		if s.baskets.Empty() {
			s.completeLevel(ctx)
		}
	}

	// The first successful move after a hit resumes patrols.
	s.player.AdvancedSinceHit = true

	s.checkContact()
}

// OnClockTick advances the elapsed-time counters. It runs in every state.
func (s *Session) OnClockTick() {
	s.elapsed++
	s.totalElapsed++
	s.touch()
}

// OnPatrolTick steps every patroller once, then checks for contact. It does
// nothing while patrols are paused.
func (s *Session) OnPatrolTick() {
	if s.PatrolPaused() {
		return
	}
	world.StepAll(s.patrollers, s.grid)
	s.touch()
	s.checkContact()
}

// PatrolPaused reports whether patrol ticks are currently ignored.
func (s *Session) PatrolPaused() bool {
	return s.state != StatePlaying || !s.player.AdvancedSinceHit
}

// FinishGame records the final score under name and starts a new game. A
// failed save is reported but does not prevent the reset.
func (s *Session) FinishGame(ctx context.Context, name string) error {
	if s.state != StateGameOver {
		return ErrGameInProgress
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = AnonymousName
	}

	hs := HighScore{
		Name:        name,
		Score:       s.score,
		Level:       s.level,
		ElapsedSecs: s.totalElapsed,
		RunID:       s.runID,
	}

	var saveErr error
	if err := s.store.SaveHighScore(ctx, hs); err != nil {
		saveErr = &ScoreStoreError{Op: "save", Err: err}
		s.warn(saveErr, "high score not saved")
	} else {
		s.emit(Event{Kind: EventScoreSaved, Message: name})
		s.logger.Info("high score saved", "name", name, "score", hs.Score, "level", hs.Level)
	}

	return errors.Join(saveErr, s.Reset(ctx))
}

// TopScores reads the best results from the store. It touches no game state.
func (s *Session) TopScores(ctx context.Context, limit int) ([]HighScore, error) {
	scores, err := s.store.TopScores(ctx, limit)
	if err != nil {
		return nil, &ScoreStoreError{Op: "load", Err: err}
	}
	return scores, nil
}

// DrainEvents returns and clears the pending events.
func (s *Session) DrainEvents() []Event {
	evs := s.events
	s.events = nil
	return evs
}

// Version increases on every state change.
func (s *Session) Version() uint64 {
	return s.version
}

// State returns the state machine position.
func (s *Session) State() State {
	return s.state
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	patrollers := make([]world.Patroller, len(s.patrollers))
	copy(patrollers, s.patrollers)

	return Snapshot{
		Rows:         s.grid.Rows(),
		Cols:         s.grid.Cols(),
		Trees:        s.grid.Trees(),
		Mountains:    s.grid.Mountains(),
		Baskets:      s.baskets.Positions(),
		Patrollers:   patrollers,
		Player:       s.player.Pos,
		Start:        s.player.Start,
		Score:        s.score,
		Lives:        s.lives,
		Elapsed:      s.elapsed,
		Level:        s.level,
		LevelName:    s.levelName,
		Generated:    s.generated,
		State:        s.state,
		PatrolPaused: s.PatrolPaused(),
	}
}

// checkContact runs collision handling at most once, however many
// patrollers touch the player.
func (s *Session) checkContact() {
	if world.AnyTouching(s.player.Pos, s.patrollers) {
		s.onCollision()
	}
}

func (s *Session) onCollision() {
	s.lives--
	s.touch()

	if s.lives > 0 {
		s.player.Respawn()
		s.emit(Event{Kind: EventLifeLost})
		s.logger.Info("life lost", "lives", s.lives, "level", s.level)
		return
	}

	s.state = StateGameOver
	s.emit(Event{Kind: EventGameOver})
	s.logger.Info("game over", "score", s.score, "level", s.level, "elapsed", s.totalElapsed)
}

// completeLevel advances to the next level. A predefined level that fails to
// load is replaced by a generated one. If no level can be produced, which
// only happens when the grid is too small for the generator parameters, the
// cleared level stays without baskets and a warning asks the player to reset.
func (s *Session) completeLevel(ctx context.Context) {
	ctx, span := telemetry.Tracer("session").Start(ctx, "session.level_complete")
	defer span.End()

	cleared := s.level
	s.state = StateLevelTransition
	s.emit(Event{Kind: EventLevelComplete})
	span.SetAttributes(attribute.Int("level.cleared", cleared), attribute.Int("score", s.score))

	next := cleared + 1
	layout, err := s.loadLayout(ctx, next)
	if err != nil && next <= s.source.Count() {
		s.warn(err, "predefined level unavailable, generating one")
		layout, err = s.gen.Generate(ctx, next, s.player.Pos)
	}
	if err != nil {
		span.RecordError(err)
		s.warn(err, "no next level could be built, press reset for a new game")
		s.state = StatePlaying
		return
	}

	s.install(layout)
	s.state = StatePlaying
	s.emitLevelLoaded(layout)
}

// loadLayout fetches the level for index from the source or the generator.
// A predefined level without baskets could never be completed and counts as
// a load failure.
func (s *Session) loadLayout(ctx context.Context, index int) (*levels.Layout, error) {
	if index > s.source.Count() {
		return s.gen.Generate(ctx, index, s.player.Pos)
	}
	l, err := s.source.Load(ctx, index)
	if err != nil {
		return nil, err
	}
	if l.Baskets.Empty() {
		return nil, &levels.LevelLoadError{Index: index, Err: levels.ErrNoBaskets}
	}
	return l, nil
}

// install replaces the level state with fresh instances from layout.
func (s *Session) install(l *levels.Layout) {
	start := s.player.Pos
	if l.HasStart {
		start = l.Start
	}
	advanced := s.player.AdvancedSinceHit

	s.grid = l.Grid
	s.baskets = l.Baskets
	s.patrollers = l.Patrollers
	s.player = world.NewPlayer(start)
	s.player.AdvancedSinceHit = advanced
	s.level = l.Index
	s.levelName = l.Name
	s.generated = l.Generated
	s.elapsed = 0
	s.touch()

	for _, w := range l.Warnings {
		s.emit(Event{Kind: EventWarning, Message: fmt.Sprintf("level %d: %s", l.Index, w)})
	}
	if !l.HasStart {
		s.emit(Event{Kind: EventWarning, Message: fmt.Sprintf("level %d has no player start, keeping %v", l.Index, start)})
	}
}

func (s *Session) emitLevelLoaded(l *levels.Layout) {
	s.emit(Event{Kind: EventLevelLoaded, Message: l.Name})
	s.logger.Info("level loaded",
		"level", l.Index,
		"name", l.Name,
		"generated", l.Generated,
		"baskets", l.Baskets.Len(),
		"patrollers", len(l.Patrollers),
	)
}

func (s *Session) warn(err error, msg string) {
	s.logger.Warn(msg, "err", err)
	s.emit(Event{Kind: EventWarning, Message: fmt.Sprintf("%s: %v", msg, err), Err: err})
}

// emit queues an event stamped with the current counters.
func (s *Session) emit(e Event) {
	e.Level = s.level
	e.Score = s.score
	e.Lives = s.lives
	s.events = append(s.events, e)
	s.touch()
}

func (s *Session) touch() {
	s.version++
}
