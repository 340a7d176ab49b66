package session

import (
	"context"
	"errors"

	"github.com/jon4hz/modhub/internal/database"
)

var _ Store = (*DB)(nil)

// DB keeps the token in the local database used by the command line client.
type DB struct {
	db database.DB
}

// NewDB returns a Store backed by db.
func NewDB(db database.DB) *DB {
	return &DB{db: db}
}

func (s *DB) Token(ctx context.Context) (string, error) {
	token, err := s.db.GetSetting(ctx, Key)
	if errors.Is(err, database.ErrNotFound) {
		return "", nil
	}
	return token, err
}

func (s *DB) SetToken(ctx context.Context, token string) error {
	return s.db.SetSetting(ctx, Key, token)
}

func (s *DB) Clear(ctx context.Context) error {
	return s.db.DeleteSetting(ctx, Key)
}
