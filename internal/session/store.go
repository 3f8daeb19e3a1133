package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// HighScore is one persisted game result.
type HighScore struct {
	Name        string
	Score       int
	Level       int
	ElapsedSecs int
	RunID       uuid.UUID
	CreatedAt   time.Time
}

// ScoreStore persists high scores. Both calls may fail; the session reports
// failures and carries on.
type ScoreStore interface {
	SaveHighScore(ctx context.Context, hs HighScore) error
	// TopScores returns up to limit results ordered by score, best first.
	TopScores(ctx context.Context, limit int) ([]HighScore, error)
}

// ScoreStoreError wraps a failed store operation.
type ScoreStoreError struct {
	Op  string
	Err error
}

func (e *ScoreStoreError) Error() string {
	return fmt.Sprintf("session: score store %s: %v", e.Op, e.Err)
}

func (e *ScoreStoreError) Unwrap() error {
	return e.Err
}

// MemoryStore keeps scores in process memory. Used when no database is
// configured and in tests.
type MemoryStore struct {
	mu     sync.Mutex
	scores []HighScore
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveHighScore implements ScoreStore.
func (m *MemoryStore) SaveHighScore(_ context.Context, hs HighScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hs.CreatedAt.IsZero() {
		hs.CreatedAt = time.Now()
	}
	m.scores = append(m.scores, hs)
	return nil
}

// TopScores implements ScoreStore.
func (m *MemoryStore) TopScores(_ context.Context, limit int) ([]HighScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]HighScore, len(m.scores))
	copy(out, m.scores)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
