package ledger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/while-basic/celaya-parachain-sub001/core"
)

// FileOptions configures a FileLedger.
type FileOptions struct {
	// Sync flushes every append to stable storage.
	Sync bool
	Now  func() time.Time
}

// FileLedger appends JSON lines to per-agent, per-day files in a directory.
type FileLedger struct {
	mu     sync.Mutex
	dir    string
	opts   FileOptions
	nextID uint64
}

// OpenFileLedger opens (creating if needed) dir and resumes record ids after
// the highest id found in existing files.
func OpenFileLedger(dir string, optFns ...func(o *FileOptions)) (*FileLedger, error) {
	if dir == "" {
		return nil, errors.New("ledger dir is required")
	}

	opts := FileOptions{Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	l := &FileLedger{dir: dir, opts: opts}

	maxID, err := l.scanMaxID()
	if err != nil {
		return nil, err
	}

	l.nextID = maxID

	return l, nil
}

// Dir returns the ledger directory.
func (l *FileLedger) Dir() string { return l.dir }

// Append implements core.RecordSink.
func (l *FileLedger) Append(ctx context.Context, rec core.Record) (core.Record, error) {
	if err := ctx.Err(); err != nil {
		return core.Record{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = l.opts.Now()
	}

	rec.ID = l.nextID + 1

	line, err := json.Marshal(rec)
	if err != nil {
		return core.Record{}, fmt.Errorf("ledger: encode record: %w", err)
	}

	path := filepath.Join(l.dir, FileName(rec.Agent, rec.Timestamp))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return core.Record{}, err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return core.Record{}, err
	}

	if l.opts.Sync {
		if err := f.Sync(); err != nil {
			return core.Record{}, err
		}
	}

	l.nextID = rec.ID

	return rec, nil
}

// ListFiles returns the names of all log files in lexical order.
func (l *FileLedger) ListFiles(context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}

	var names []string

	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), fileExt) {
			names = append(names, e.Name())
		}
	}

	sort.Strings(names)

	return names, nil
}

// ReadFile decodes every record in name. Blank lines are skipped.
func (l *FileLedger) ReadFile(_ context.Context, name string) ([]core.Record, error) {
	if name != filepath.Base(name) {
		return nil, core.Errorf("ledger.read", core.KindInvalidInput, "invalid file name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, core.Errorf("ledger.read", core.KindNotFound, "file %q", name)
	}

	if err != nil {
		return nil, err
	}

	return decodeLines(name, data)
}

// LatestFile returns the log file with the newest modification time.
func (l *FileLedger) LatestFile(ctx context.Context) (string, error) {
	names, err := l.ListFiles(ctx)
	if err != nil {
		return "", err
	}

	var (
		latest string
		newest time.Time
	)

	for _, n := range names {
		info, err := os.Stat(filepath.Join(l.dir, n))
		if err != nil {
			continue
		}

		if latest == "" || info.ModTime().After(newest) {
			latest, newest = n, info.ModTime()
		}
	}

	if latest == "" {
		return "", core.Errorf("ledger.latest", core.KindNotFound, "no log files in %s", l.dir)
	}

	return latest, nil
}

func (l *FileLedger) scanMaxID() (uint64, error) {
	names, err := l.ListFiles(context.Background())
	if err != nil {
		return 0, err
	}

	var maxID uint64

	for _, n := range names {
		recs, err := l.ReadFile(context.Background(), n)
		if err != nil {
			return 0, err
		}

		for _, r := range recs {
			maxID = max(maxID, r.ID)
		}
	}

	return maxID, nil
}

func decodeLines(name string, data []byte) ([]core.Record, error) {
	var recs []core.Record

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++

		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}

		var r core.Record
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, fmt.Errorf("ledger: %s:%d: %w", name, line, err)
		}

		recs = append(recs, r)
	}

	return recs, sc.Err()
}
