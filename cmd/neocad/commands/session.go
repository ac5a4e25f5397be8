package commands

import (
	"context"
	"time"

	"github.com/teranos/neocad/am"
	"github.com/teranos/neocad/database"
	"github.com/teranos/neocad/errors"
	"github.com/teranos/neocad/extract"
	"github.com/teranos/neocad/logger"
)

// Session is the state shared by the commands of one neocad process. The
// database is loaded on first use and reused afterwards, so every command
// typed into `neocad shell` queries the same linked data.
type Session struct {
	Config  *am.Config
	NEOPath string
	CADPath string

	db *database.NEODatabase
}

// Configure points the session at cfg, with non-empty paths overriding
// the configured data files.
func (s *Session) Configure(cfg *am.Config, neoPath, cadPath string) {
	s.Config = cfg
	s.NEOPath = firstNonEmpty(neoPath, cfg.Data.NEOPath)
	s.CADPath = firstNonEmpty(cadPath, cfg.Data.CADPath)
	s.db = nil
}

// Database loads, links and caches the NEO database.
func (s *Session) Database(ctx context.Context) (*database.NEODatabase, error) {
	if s.db != nil {
		return s.db, nil
	}

	log := logger.LoggerFromContext(ctx)
	start := time.Now()

	neos, err := extract.LoadNEOs(s.NEOPath)
	if err != nil {
		return nil, errors.WithHint(err, "run 'neocad fetch' or pass --neofile")
	}
	approaches, err := extract.LoadApproaches(s.CADPath)
	if err != nil {
		return nil, errors.WithHint(err, "run 'neocad fetch' or pass --cadfile")
	}

	db, err := database.NewWithOptions(neos, approaches, database.Options{
		Logger: logger.ComponentLogger("database"),
	})
	if err != nil {
		return nil, err
	}

	log.Infow("Database loaded",
		logger.FieldNEOCount, db.Len(),
		logger.FieldApproachCount, db.ApproachCount(),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)

	s.db = db
	return db, nil
}
