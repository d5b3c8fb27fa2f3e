// Package storage provides the SQLite session journal.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
//
// The journal records what happened in each session (rounds started, shots,
// deaths, wins, resets) with timestamps. Scores are not stored. Signals
// arriving through a Sink are written by a background writer, so a slow
// disk never stalls the game that emitted them.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/vovakirdan/tui-commando/internal/games/commando"
)

// ErrUnknownSession is returned when recording into a session that was never begun.
var ErrUnknownSession = errors.New("storage: unknown session")

// queueSize bounds the signals waiting for the writer. Past it, Sink drops.
const queueSize = 1024

// Journal manages the SQLite database connection for session records.
type Journal struct {
	db *sql.DB

	mu      sync.Mutex
	idle    *sync.Cond
	queue   chan entry
	pending int
	dropped int
	closed  bool

	writerDone chan struct{}
	closeOnce  sync.Once
	closeErr   error
}

type entry struct {
	sessionID string
	sig       commando.Signal
	logger    *log.Logger
}

// Session summarizes one connection or local run.
type Session struct {
	ID        string
	Transport string // "local", "ssh", "web" or "simulate"
	StartedAt time.Time
	Rounds    int
	Shots     int
	Deaths    int
	Wins      int
}

// Event is one journaled signal.
type Event struct {
	ID        int64
	SessionID string
	Kind      string
	Epoch     uint64
	Survived  int
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Journal, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// Sessions journal from many goroutines; one connection serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	j := &Journal{
		db:         db,
		queue:      make(chan entry, queueSize),
		writerDone: make(chan struct{}),
	}
	j.idle = sync.NewCond(&j.mu)
	if err := j.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	go j.writer()
	return j, nil
}

// migrate creates the database schema if it doesn't exist.
func (j *Journal) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			transport TEXT NOT NULL,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS session_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id),
			kind TEXT NOT NULL,
			epoch INTEGER NOT NULL,
			survived_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_session_events_session ON session_events(session_id);
	`

	_, err := j.db.Exec(schema)
	return err
}

// Close writes out the queued signals and closes the database connection.
// Later sink signals are dropped. Close is safe to call more than once.
func (j *Journal) Close() error {
	j.closeOnce.Do(func() {
		j.mu.Lock()
		j.closed = true
		close(j.queue)
		j.mu.Unlock()

		<-j.writerDone
		j.closeErr = j.db.Close()
	})
	return j.closeErr
}

// Flush blocks until every signal queued by a Sink has been written.
func (j *Journal) Flush() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for j.pending > 0 {
		j.idle.Wait()
	}
}

// Dropped returns how many sink signals were discarded because the queue
// was full or the journal was closed.
func (j *Journal) Dropped() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.dropped
}

// enqueue hands a signal to the writer without blocking.
func (j *Journal) enqueue(e entry) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		j.dropped++
		return false
	}
	select {
	case j.queue <- e:
		j.pending++
		return true
	default:
		j.dropped++
		return false
	}
}

func (j *Journal) writer() {
	defer close(j.writerDone)
	for e := range j.queue {
		if err := j.Record(e.sessionID, e.sig); err != nil && e.logger != nil {
			e.logger.Warn("journal write failed", "session", e.sessionID, "signal", e.sig.Kind, "err", err)
		}
		j.mu.Lock()
		j.pending--
		if j.pending == 0 {
			j.idle.Broadcast()
		}
		j.mu.Unlock()
	}
}

// BeginSession registers a new session.
func (j *Journal) BeginSession(id, transport string) error {
	_, err := j.db.Exec("INSERT INTO sessions (id, transport) VALUES (?, ?)", id, transport)
	if err != nil {
		return fmt.Errorf("storage: cannot begin session %s: %w", id, err)
	}
	return nil
}

// Record appends a signal to a session's journal synchronously.
func (j *Journal) Record(sessionID string, sig commando.Signal) error {
	_, err := j.db.Exec(
		"INSERT INTO session_events (session_id, kind, epoch, survived_secs) VALUES (?, ?, ?, ?)",
		sessionID, sig.Kind.String(), int64(sig.Epoch), sig.Survived, //#nosec G115 -- epochs stay small
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}
	if err != nil {
		return fmt.Errorf("storage: cannot record %s: %w", sig.Kind, err)
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

// Events returns a session's journal in the order it was written.
func (j *Journal) Events(sessionID string) ([]Event, error) {
	rows, err := j.db.Query(
		`SELECT id, session_id, kind, epoch, survived_secs, created_at
		 FROM session_events
		 WHERE session_id = ?
		 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var epoch int64
		var createdAt any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Kind, &epoch, &e.Survived, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.Epoch = uint64(epoch) //#nosec G115 -- stored from a uint64
		e.CreatedAt = parseTime(createdAt)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return events, nil
}

// RecentSessions returns the latest sessions with per-kind event counts.
func (j *Journal) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := j.db.Query(
		`SELECT s.id, s.transport, s.started_at,
		        COALESCE(SUM(CASE WHEN e.kind = 'started' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN e.kind = 'shot' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN e.kind = 'died' THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN e.kind = 'won' THEN 1 ELSE 0 END), 0)
		 FROM sessions s
		 LEFT JOIN session_events e ON e.session_id = s.id
		 GROUP BY s.id
		 ORDER BY s.started_at DESC, s.rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var startedAt any
		if err := rows.Scan(&s.ID, &s.Transport, &startedAt, &s.Rounds, &s.Shots, &s.Deaths, &s.Wins); err != nil {
			return nil, fmt.Errorf("storage: cannot scan session row: %w", err)
		}
		s.StartedAt = parseTime(startedAt)
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return sessions, nil
}

// Sink returns a signal sink that journals into sessionID. Emit only queues
// the signal. Write failures and drops are logged and otherwise ignored so
// the game keeps running.
func (j *Journal) Sink(sessionID string, logger *log.Logger) commando.SignalSink {
	return commando.SinkFunc(func(sig commando.Signal) {
		if !j.enqueue(entry{sessionID: sessionID, sig: sig, logger: logger}) && logger != nil {
			logger.Warn("journal signal dropped", "session", sessionID, "signal", sig.Kind)
		}
	})
}

// parseTime handles both time.Time and string datetime values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
