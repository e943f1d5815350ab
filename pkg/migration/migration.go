// Package migration runs and tracks schema migrations in batches.
//
// Migrations register themselves from database/migrations:
//
//	func init() {
//	    migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
//	}
//
// and run from the CLI:
//
//	shop migrate             // run all pending
//	shop migrate:rollback    // roll back the last batch
//	shop migrate:status
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopql/pkg/logger"
)

// Migration is implemented by every schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// Entry is a named migration.
type Entry struct {
	Name      string
	Migration Migration
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "shop_migrations" }

var (
	regMu    sync.Mutex
	registry []Entry
)

// Register adds m to the global registry. Names are timestamp-prefixed and
// run in lexical order.
func Register(name string, m Migration) {
	regMu.Lock()
	defer regMu.Unlock()
	registry = append(registry, Entry{Name: name, Migration: m})
}

// Registered returns a sorted copy of the global registry.
func Registered() []Entry {
	regMu.Lock()
	out := append([]Entry(nil), registry...)
	regMu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Runner executes and tracks a fixed set of migrations.
type Runner struct {
	db      *gorm.DB
	entries []Entry
	out     io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithEntries replaces the global registry for this runner.
func WithEntries(entries ...Entry) Option {
	return func(r *Runner) {
		r.entries = append([]Entry(nil), entries...)
		sort.Slice(r.entries, func(i, j int) bool { return r.entries[i].Name < r.entries[j].Name })
	}
}

// WithOutput sets where progress lines are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// New returns a Runner over the global registry unless WithEntries is given.
func New(db *gorm.DB, opts ...Option) *Runner {
	r := &Runner{db: db, entries: Registered(), out: os.Stdout}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Runner) ensureTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

// Pending returns the migrations that have not run yet, in order.
func (r *Runner) Pending(ctx context.Context) ([]Entry, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}

	ran, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}

	var pending []Entry
	for _, e := range r.entries {
		if _, ok := ran[e.Name]; !ok {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// Run applies every pending migration as one batch and returns how many ran.
func (r *Runner) Run(ctx context.Context) (int, error) {
	pending, err := r.Pending(ctx)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		logger.Info("migration: nothing to migrate")
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return 0, nil
	}

	batch, err := r.lastBatch(ctx)
	if err != nil {
		return 0, err
	}
	batch++

	db := r.db.WithContext(ctx)
	for i, e := range pending {
		fmt.Fprintf(r.out, "  ▶ Migrating: %s\n", e.Name)

		if err := e.Migration.Up(db); err != nil {
			return i, fmt.Errorf("migration: %s up: %w", e.Name, err)
		}
		if err := db.Create(&record{Name: e.Name, Batch: batch}).Error; err != nil {
			return i, fmt.Errorf("migration: record %s: %w", e.Name, err)
		}

		fmt.Fprintf(r.out, "  ✅ Migrated:  %s\n", e.Name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return len(pending), nil
}

// Rollback reverses the most recent batch, newest first, and returns how
// many migrations were undone.
func (r *Runner) Rollback(ctx context.Context) (int, error) {
	if err := r.ensureTable(ctx); err != nil {
		return 0, err
	}

	batch, err := r.lastBatch(ctx)
	if err != nil {
		return 0, err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}

	db := r.db.WithContext(ctx)

	var records []record
	if err := db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return 0, fmt.Errorf("migration: load batch %d: %w", batch, err)
	}

	known := make(map[string]Migration, len(r.entries))
	for _, e := range r.entries {
		known[e.Name] = e.Migration
	}

	for i, rec := range records {
		m, ok := known[rec.Name]
		if !ok {
			return i, fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  ◀ Rolling back: %s\n", rec.Name)
		if err := m.Down(db); err != nil {
			return i, fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := db.Delete(&rec).Error; err != nil {
			return i, fmt.Errorf("migration: forget %s: %w", rec.Name, err)
		}
		fmt.Fprintf(r.out, "  ✅ Rolled back:  %s\n", rec.Name)
	}

	logger.Info("migration: rolled back", "batch", batch, "count", len(records))
	return len(records), nil
}

// Status prints every known migration and the batch it ran in.
func (r *Runner) Status(ctx context.Context) error {
	if err := r.ensureTable(ctx); err != nil {
		return err
	}

	ran, err := r.ran(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("-", 80))
	for _, e := range r.entries {
		if rec, ok := ran[e.Name]; ok {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", e.Name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", e.Name, "Pending")
		}
	}
	return nil
}

func (r *Runner) ran(ctx context.Context) (map[string]record, error) {
	var rows []record
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load history: %w", err)
	}

	out := make(map[string]record, len(rows))
	for _, rec := range rows {
		out[rec.Name] = rec
	}
	return out, nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	var batch sql.NullInt64
	if err := r.db.WithContext(ctx).Model(&record{}).Select("MAX(batch)").Scan(&batch).Error; err != nil {
		return 0, fmt.Errorf("migration: read batch: %w", err)
	}
	return int(batch.Int64), nil
}
