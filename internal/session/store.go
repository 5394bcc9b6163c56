package session

import (
	"context"
	"errors"
	"time"

	"StockTrend/internal/domain/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session id is unknown or expired.
var ErrNotFound = errors.New("session: not found")

// Store keeps the current query fields of each shell session. Nothing
// else is kept: no results and no history.
type Store interface {
	Get(ctx context.Context, id string) (models.UserQuery, error)
	Put(ctx context.Context, id string, q models.UserQuery) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID returns a random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one NewID produced.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// defaultTTL applies when a store is created with ttl <= 0.
const defaultTTL = 12 * time.Hour
