// Package storage provides session persistence (Redis-backed) and content
// registry loading (filesystem-backed). The engine core performs no I/O;
// everything that touches disk or the network lives here.
package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/dialogue-engine/pkg/state"
)

// Storage defines session persistence operations.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Session operations
	SaveSession(ctx context.Context, id uuid.UUID, saved *state.SavedGame) error
	LoadSession(ctx context.Context, id uuid.UUID) (*state.SavedGame, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}
