// Package memory provides in-memory repository implementations backed by
// mutex-guarded maps. They power the contract test suites and local
// development without a Firestore project.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/youthfc/team-manager-service/internal/model"
	"github.com/youthfc/team-manager-service/internal/repository"
)

// Store holds all three collections behind a single lock so cross-collection
// reads observe a consistent snapshot within one call.
type Store struct {
	mu      sync.RWMutex
	players map[string]model.Player
	matches map[string]model.Match
	stats   map[string]model.Statistics
}

func NewStore() *Store {
	return &Store{
		players: make(map[string]model.Player),
		matches: make(map[string]model.Match),
		stats:   make(map[string]model.Statistics),
	}
}

// Ping satisfies repository.Pinger; an in-process store is always ready.
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func paginate[T any](items []T, p repository.Page) repository.PageResult[T] {
	total := len(items)
	limit := p.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return repository.PageResult[T]{Items: []T{}, Total: total}
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return repository.PageResult[T]{Items: items[offset:end], Total: total}
}

func now() time.Time { return time.Now().UTC() }

func newID() string { return uuid.NewString() }

var (
	_ repository.Pinger = (*Store)(nil)
)
