package root

import (
	"context"
	"database/sql"

	"lifequest/internal/engine"
	"lifequest/internal/storage"
)

func (e *env) openDB(ctx context.Context) (*sql.DB, func(), error) {
	path, err := e.cfg.ResolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

func (e *env) openService(ctx context.Context) (*engine.Service, func(), error) {
	loc, err := e.cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	db, cleanup, err := e.openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	repo := storage.NewRepo(storage.NewSQLiteKV(db))
	return engine.NewService(repo, engine.WithLocation(loc), engine.WithTuning(e.tuning)), cleanup, nil
}
