package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/samdwyer/idlequest/internal/clock"
	"github.com/samdwyer/idlequest/internal/game"
	"github.com/samdwyer/idlequest/internal/storage"
)

// config merges environment configuration with command-line overrides.
func (f *flags) config() (game.Config, error) {
	cfg, err := game.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	if f.dbPath != "" {
		cfg.DBPath = f.dbPath
	}
	if f.slot != "" {
		cfg.Slot = f.slot
	}
	if f.seed != 0 {
		cfg.Seed = f.seed
	}
	return cfg, nil
}

func openDB(ctx context.Context, cfg game.Config) (*sql.DB, func(), error) {
	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

// openSession opens the save database and loads the configured slot. A slot
// that cannot be read is an error, so the command never writes over it.
func openSession(ctx context.Context, f *flags) (*game.Session, *storage.SaveRepo, func(), error) {
	s, repo, cleanup, err := openSessionLenient(ctx, f)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := s.Unreadable(); err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("%w (run `idlequest reset --yes` to start over)", err)
	}
	return s, repo, cleanup, nil
}

// openSessionLenient is openSession for callers that may run on top of an
// unreadable slot. The session starts fresh and refuses to save over it.
func openSessionLenient(ctx context.Context, f *flags) (*game.Session, *storage.SaveRepo, func(), error) {
	cfg, err := f.config()
	if err != nil {
		return nil, nil, nil, err
	}
	db, cleanup, err := openDB(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	repo := storage.NewSaveRepo(db)

	s, err := game.NewSession(cfg, clock.NewReal(), repo)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	if err := s.Load(ctx); err != nil {
		log.Printf("Warning: %v", err)
	}
	return s, repo, cleanup, nil
}
