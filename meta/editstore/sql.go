package editstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"

	"github.com/joshuapare/metakit/internal/logging"
	"github.com/joshuapare/metakit/meta/manip"
)

const (
	schemaVersion = 1

	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond

	defaultLockTimeout = 5 * time.Second
	lockRetryDelay     = 25 * time.Millisecond
)

// ErrSchemaMismatch means the database was created by another schema version.
var ErrSchemaMismatch = errors.New("editstore: schema version mismatch")

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

type dialect struct {
	driver string
	// numbered placeholders ($1, $2) instead of ?
	numbered bool
	ddl      []string
}

var (
	sqliteDialect = dialect{
		driver: "sqlite",
		ddl: []string{
			`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`,
			`CREATE TABLE IF NOT EXISTS collections (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				generation INTEGER NOT NULL,
				manipulation_count INTEGER NOT NULL,
				manipulations TEXT NOT NULL,
				updated_at INTEGER NOT NULL
			)`,
		},
	}
	postgresDialect = dialect{
		driver:   "pgx",
		numbered: true,
		ddl: []string{
			`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`,
			`CREATE TABLE IF NOT EXISTS collections (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				generation BIGINT NOT NULL,
				manipulation_count INTEGER NOT NULL,
				manipulations JSONB NOT NULL,
				updated_at BIGINT NOT NULL
			)`,
		},
	}
)

// rebind rewrites ? placeholders for dialects that number them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQL stores edit sets in a relational database.
type SQL struct {
	db          *sql.DB
	dialect     dialect
	lock        *flock.Flock
	lockTimeout time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// OpenSQLite opens or creates the database at path. Writers in other
// processes are serialized through a lock file next to it.
func OpenSQLite(ctx context.Context, path string, lockTimeout time.Duration, logger *slog.Logger) (*SQL, error) {
	if path == "" {
		return nil, errors.New("editstore: sqlite path is empty")
	}
	db, err := open(sqliteDialect, path)
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("editstore: apply pragma %q: %w", pragma, execErr)
		}
	}
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	s := &SQL{
		db:          db,
		dialect:     sqliteDialect,
		lock:        flock.New(path + ".lock"),
		lockTimeout: lockTimeout,
		now:         time.Now,
		logger:      logging.Component(logger, "editstore"),
	}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// OpenPostgres connects with dsn through the pgx driver.
func OpenPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*SQL, error) {
	if dsn == "" {
		return nil, errors.New("editstore: postgres dsn is empty")
	}
	db, err := open(postgresDialect, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("editstore: ping postgres: %w", err)
	}
	s := &SQL{
		db:      db,
		dialect: postgresDialect,
		now:     time.Now,
		logger:  logging.Component(logger, "editstore"),
	}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func open(d dialect, source string) (*sql.DB, error) {
	openMu.Lock()
	defer openMu.Unlock()
	db, err := sqlOpen(d.driver, source)
	if err != nil {
		return nil, fmt.Errorf("editstore: open %s: %w", d.driver, err)
	}
	return db, nil
}

func (s *SQL) initSchema(ctx context.Context) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("editstore: begin schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		for _, stmt := range s.dialect.ddl {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("editstore: create schema: %w", err)
			}
		}
		var version int
		err = tx.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.ExecContext(ctx, s.dialect.rebind("INSERT INTO schema_version (version) VALUES (?)"), schemaVersion); err != nil {
				return fmt.Errorf("editstore: record schema version: %w", err)
			}
		case err != nil:
			return fmt.Errorf("editstore: read schema version: %w", err)
		case version != schemaVersion:
			return fmt.Errorf("%w: database has version %d, expected %d", ErrSchemaMismatch, version, schemaVersion)
		}
		return tx.Commit()
	})
}

func (s *SQL) LoadEditSet(ctx context.Context, id uuid.UUID) (Record, error) {
	var (
		name    string
		gen     int64
		payload []byte
	)
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			s.dialect.rebind("SELECT name, generation, manipulations FROM collections WHERE id = ?"),
			id.String(),
		).Scan(&name, &gen, &payload)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrCollectionNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("editstore: load %s: %w", id, err)
	}
	set, err := manip.Decode(payload, manip.FormatJSON)
	if err != nil {
		return Record{}, fmt.Errorf("editstore: decode %s: %w", id, err)
	}
	return Record{ID: id, Name: name, Generation: uint64(gen), Set: set}, nil
}

func (s *SQL) SaveEditSet(ctx context.Context, rec Record) error {
	payload, err := manip.Encode(rec.Set, manip.FormatJSON)
	if err != nil {
		return fmt.Errorf("editstore: encode %s: %w", rec.ID, err)
	}
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	err = retryOnBusy(ctx, func() error {
		return s.save(ctx, rec, payload)
	})
	if err != nil {
		return err
	}
	s.logger.Debug("saved edit set", logging.FieldCollection, rec.Name, "generation", rec.Generation, "count", rec.Set.Len())
	return nil
}

func (s *SQL) save(ctx context.Context, rec Record, payload []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("editstore: begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored int64
	err = tx.QueryRowContext(ctx, s.dialect.rebind("SELECT generation FROM collections WHERE id = ?"), rec.ID.String()).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("editstore: read generation: %w", err)
	case rec.Generation <= uint64(stored):
		return fmt.Errorf("%w: stored %d, saving %d", ErrStaleGeneration, stored, rec.Generation)
	}

	var taken int
	err = tx.QueryRowContext(ctx,
		s.dialect.rebind("SELECT COUNT(1) FROM collections WHERE name = ? AND id <> ?"),
		rec.Name, rec.ID.String(),
	).Scan(&taken)
	if err != nil {
		return fmt.Errorf("editstore: check name: %w", err)
	}
	if taken > 0 {
		return fmt.Errorf("%w: %q", ErrNameTaken, rec.Name)
	}

	_, err = tx.ExecContext(ctx, s.dialect.rebind(`INSERT INTO collections
		(id, name, generation, manipulation_count, manipulations, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			generation = excluded.generation,
			manipulation_count = excluded.manipulation_count,
			manipulations = excluded.manipulations,
			updated_at = excluded.updated_at`),
		rec.ID.String(), rec.Name, int64(rec.Generation), rec.Set.Len(), string(payload), s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("editstore: write %s: %w", rec.ID, err)
	}
	return tx.Commit()
}

func (s *SQL) Collections(ctx context.Context) ([]Info, error) {
	var out []Info
	err := retryOnBusy(ctx, func() error {
		out = out[:0]
		rows, err := s.db.QueryContext(ctx,
			"SELECT id, name, generation, manipulation_count, updated_at FROM collections ORDER BY name")
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			var (
				rawID   string
				info    Info
				gen     int64
				updated int64
			)
			if err := rows.Scan(&rawID, &info.Name, &gen, &info.Count, &updated); err != nil {
				return err
			}
			id, err := uuid.Parse(rawID)
			if err != nil {
				return fmt.Errorf("collection id %q: %w", rawID, err)
			}
			info.ID = id
			info.Generation = uint64(gen)
			info.UpdatedAt = time.Unix(0, updated)
			out = append(out, info)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("editstore: list collections: %w", err)
	}
	return out, nil
}

// Close closes the underlying database connection.
func (s *SQL) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// acquire takes the cross-process writer lock. Postgres needs none.
func (s *SQL) acquire(ctx context.Context) (func(), error) {
	if s.lock == nil {
		return func() {}, nil
	}
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()
	ok, err := s.lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("editstore: acquire lock: %w", err)
	}
	if !ok {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, ErrLocked
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("release writer lock", "error", err)
		}
	}, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
