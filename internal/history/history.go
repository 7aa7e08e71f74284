// Package history keeps a SQLite log of finished simulation runs.
package history

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/plus3/meters/internal/sim"
)

// Run is one recorded simulation run.
type Run struct {
	gorm.Model
	Ticks     uint64
	Entities  int
	Deaths    int
	Survivors int
	Duration  time.Duration
	AvgTick   time.Duration
	MaxTick   time.Duration
	Effects   []EffectRun `gorm:"constraint:OnDelete:CASCADE"`
}

// EffectRun is the application count of one effect kind within a Run.
type EffectRun struct {
	ID    uint `gorm:"primarykey"`
	RunID uint `gorm:"index"`
	Name  string
	Total int64
}

// Store records runs into a SQLite database.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// dialector picks the database driver for path. postgres:// and postgresql:// URLs
// go to Postgres, anything else is a SQLite file. An empty path is a private
// in-memory SQLite database.
func dialector(path string) gorm.Dialector {
	switch {
	case strings.HasPrefix(path, "postgres://"), strings.HasPrefix(path, "postgresql://"):
		return postgres.New(postgres.Config{
			DSN:                  path,
			PreferSimpleProtocol: true,
		})
	case path == "":
		return sqlite.Open("file::memory:")
	default:
		return sqlite.Open(path)
	}
}

// Open connects to the database at path and migrates the schema. See dialector for
// the accepted forms of path.
func Open(path string, log zerolog.Logger) (*Store, error) {
	dial := dialector(path)
	db, err := gorm.Open(dial, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql interface: %w", err)
	}
	if path == "" {
		// Every pooled connection would get its own empty in-memory database.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&Run{}, &EffectRun{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate history schema: %w", err)
	}

	if path == "" {
		log.Debug().Msg("using in-memory run history")
	} else {
		log.Debug().Str("driver", dial.Name()).Msg("using run history database")
	}
	return &Store{db: db, log: log}, nil
}

// Record stores a summary of report and returns the created row.
func (s *Store) Record(report *sim.Report) (*Run, error) {
	if report == nil {
		return nil, errors.New("record run: nil report")
	}

	run := &Run{
		Ticks:     report.Ticks,
		Entities:  report.Entities,
		Deaths:    report.Deaths,
		Survivors: report.Survivors,
		Duration:  report.TotalTime,
		AvgTick:   report.TickTime.Avg,
		MaxTick:   report.TickTime.Max,
	}
	for _, e := range report.Effects {
		run.Effects = append(run.Effects, EffectRun{Name: e.Name, Total: e.Total})
	}

	if err := s.db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	s.log.Info().
		Uint("run", run.ID).
		Uint64("ticks", run.Ticks).
		Int("deaths", run.Deaths).
		Msg("run recorded")
	return run, nil
}

// Recent returns up to limit runs, newest first, with their effect totals.
func (s *Store) Recent(limit int) ([]Run, error) {
	var runs []Run
	err := s.db.
		Preload("Effects", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("id desc").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("load runs: %w", err)
	}
	return runs, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
