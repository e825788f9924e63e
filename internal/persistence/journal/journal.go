// Package journal records everything relayed to the companion as
// compressed JSONL, for postmortem inspection of a run. The tracker
// never reads these files back.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// rotateStampLayout is the rotation granularity: one file per UTC
// hour, the stamp doubling as the filename suffix.
const rotateStampLayout = "2006-01-02-15"

// Writer appends JSON lines to rotated zstd files named
// <prefix>-<stamp>.jsonl.zst under baseDir.
type Writer struct {
	baseDir string
	prefix  string

	mu       sync.Mutex
	curStamp string
	f        *os.File
	enc      *zstd.Encoder
	w        *bufio.Writer
}

func NewWriter(baseDir, prefix string) *Writer {
	return &Writer{baseDir: baseDir, prefix: prefix}
}

func (w *Writer) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	stamp := time.Now().UTC().Format(rotateStampLayout)
	if stamp != w.curStamp {
		if err := w.rotateLocked(stamp); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

// Close flushes and releases the current file. The writer stays
// usable: a later Write rotates onto a fresh handle in append mode.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *Writer) rotateLocked(stamp string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	path := filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, stamp))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.curStamp = stamp
	return nil
}

func (w *Writer) closeLocked() error {
	var closeErr error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		closeErr = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	// Force rotation on the next Write so it never lands on the
	// released handles.
	w.curStamp = ""
	return closeErr
}

// Entry is one journal line.
type Entry struct {
	TS   time.Time       `json:"ts"`
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data,omitempty"`
}

// RelayJournal wraps a Writer with relay-shaped entries.
type RelayJournal struct{ w *Writer }

func NewRelayJournal(dataDir string) *RelayJournal {
	return &RelayJournal{w: NewWriter(filepath.Join(dataDir, "journal"), "relay")}
}

// WriteEmission records a message as it went out on the companion
// link. Write failures are the caller's to log; they never affect
// relaying.
func (j *RelayJournal) WriteEmission(kind string, payload []byte) error {
	return j.w.Write(Entry{TS: time.Now().UTC(), Kind: kind, Data: payload})
}

// WriteEvent records a run transition or other marker with no
// payload.
func (j *RelayJournal) WriteEvent(kind string) error {
	return j.w.Write(Entry{TS: time.Now().UTC(), Kind: kind})
}

func (j *RelayJournal) Close() error { return j.w.Close() }
