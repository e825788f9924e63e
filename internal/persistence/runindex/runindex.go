// Package runindex keeps a small SQLite history of finished dungeon
// runs. It is a read model for the operator; the tracker never reads
// it back and tracking behavior does not depend on it.
package runindex

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"witherwatch.gg/internal/track"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_tick INTEGER NOT NULL,
	ended_tick INTEGER NOT NULL,
	started_at TEXT NOT NULL,
	ended_at TEXT NOT NULL,
	doors_published INTEGER NOT NULL,
	gotos_sent INTEGER NOT NULL
);
`

// Index writes run records from a single goroutine so the tick loop
// only ever pays for a channel send.
type Index struct {
	db *sql.DB

	ch   chan track.RunRecord
	wg   sync.WaitGroup
	once sync.Once

	// mu orders queue sends against Close so a record can never land
	// on the closed channel.
	mu     sync.RWMutex
	closed bool
}

func Open(dataDir string) (*Index, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", filepath.Join(dataDir, "runs.db"))
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	ix := &Index{db: db, ch: make(chan track.RunRecord, 16)}
	ix.wg.Add(1)
	go ix.writer()
	return ix, nil
}

func (ix *Index) writer() {
	defer ix.wg.Done()
	for r := range ix.ch {
		_, _ = ix.db.Exec(
			`INSERT INTO runs (started_tick, ended_tick, started_at, ended_at, doors_published, gotos_sent)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.StartedTick, r.EndedTick,
			r.StartedAt.UTC().Format(time.RFC3339Nano),
			r.EndedAt.UTC().Format(time.RFC3339Nano),
			r.DoorsPublished, r.GotosSent,
		)
	}
}

// RecordRun queues a record. Drops it when the index is closed or the
// queue is full; history is best-effort.
func (ix *Index) RecordRun(r track.RunRecord) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.closed {
		return
	}
	select {
	case ix.ch <- r:
	default:
	}
}

// Runs returns recorded runs, most recent first.
func (ix *Index) Runs(limit int) ([]track.RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := ix.db.Query(
		`SELECT started_tick, ended_tick, started_at, ended_at, doors_published, gotos_sent
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []track.RunRecord
	for rows.Next() {
		var r track.RunRecord
		var started, ended string
		if err := rows.Scan(&r.StartedTick, &r.EndedTick, &started, &ended, &r.DoorsPublished, &r.GotosSent); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.EndedAt, _ = time.Parse(time.RFC3339Nano, ended)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (ix *Index) Close() error {
	ix.once.Do(func() {
		ix.mu.Lock()
		ix.closed = true
		close(ix.ch)
		ix.mu.Unlock()
	})
	ix.wg.Wait()
	return ix.db.Close()
}
