// Package editstore persists committed edit sets, one per collection.
//
// Backends:
//   - Memory: process-local, for tests and throwaway sessions
//   - SQL: database/sql over SQLite (modernc.org/sqlite) or Postgres (pgx)
//
// Every save carries the collection's generation. A save whose generation
// is not newer than the stored one fails with ErrStaleGeneration, so a
// store never moves a collection backwards.
package editstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joshuapare/metakit/meta/manip"
)

var (
	// ErrCollectionNotFound means no edit set is stored for the id.
	ErrCollectionNotFound = errors.New("editstore: collection not found")
	// ErrStaleGeneration means a newer generation is already stored.
	ErrStaleGeneration = errors.New("editstore: stale generation")
	// ErrNameTaken means another collection already uses the name.
	ErrNameTaken = errors.New("editstore: collection name taken")
	// ErrLocked means the writer lock could not be acquired in time.
	ErrLocked = errors.New("editstore: store is locked by another writer")
)

// Info describes a stored collection without its manipulations.
type Info struct {
	ID         uuid.UUID
	Name       string
	Generation uint64
	Count      int
	UpdatedAt  time.Time
}

// Record is one collection's committed edit set.
type Record struct {
	ID         uuid.UUID
	Name       string
	Generation uint64
	Set        manip.Set
}

// Info summarizes r.
func (r Record) Info(updated time.Time) Info {
	return Info{ID: r.ID, Name: r.Name, Generation: r.Generation, Count: r.Set.Len(), UpdatedAt: updated}
}

// Store persists edit sets.
type Store interface {
	LoadEditSet(ctx context.Context, id uuid.UUID) (Record, error)
	SaveEditSet(ctx context.Context, rec Record) error
	// Collections lists stored collections ordered by name.
	Collections(ctx context.Context) ([]Info, error)
	Close() error
}

// FindByName returns the stored collection called name.
func FindByName(ctx context.Context, s Store, name string) (Info, error) {
	infos, err := s.Collections(ctx)
	if err != nil {
		return Info{}, err
	}
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return Info{}, fmt.Errorf("%w: %q", ErrCollectionNotFound, name)
}

// Driver selects a backend.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Options configures Open.
type Options struct {
	Driver Driver
	// Path is the SQLite database file.
	Path string
	// DSN is the Postgres connection string.
	DSN string
	// LockTimeout bounds how long a SQLite save waits for the writer lock.
	LockTimeout time.Duration
	Logger      *slog.Logger
}

// Open creates the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverSQLite:
		return OpenSQLite(ctx, opts.Path, opts.LockTimeout, opts.Logger)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DSN, opts.Logger)
	default:
		return nil, fmt.Errorf("editstore: unknown driver %q", opts.Driver)
	}
}
