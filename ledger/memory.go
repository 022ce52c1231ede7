package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/while-basic/celaya-parachain-sub001/core"
)

type memFile struct {
	records []core.Record
	modTime time.Time
	seq     uint64 // tie-break for equal modTimes
}

// MemoryLedger is an in-process Ledger. It copies records in and out so
// callers cannot mutate stored payloads.
type MemoryLedger struct {
	mu     sync.RWMutex
	files  map[string]*memFile
	nextID uint64
	writes uint64
	now    func() time.Time
}

// NewMemoryLedger returns an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{files: map[string]*memFile{}, now: time.Now}
}

// Append implements core.RecordSink.
func (m *MemoryLedger) Append(_ context.Context, rec core.Record) (core.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.Timestamp.IsZero() {
		rec.Timestamp = m.now()
	}

	m.nextID++
	m.writes++
	rec.ID = m.nextID
	rec.Payload = append([]byte(nil), rec.Payload...)

	name := FileName(rec.Agent, rec.Timestamp)

	f, ok := m.files[name]
	if !ok {
		f = &memFile{}
		m.files[name] = f
	}

	f.records = append(f.records, rec)
	f.modTime = m.now()
	f.seq = m.writes

	return rec, nil
}

// ListFiles returns file names in lexical order.
func (m *MemoryLedger) ListFiles(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.files))
	for n := range m.files {
		names = append(names, n)
	}

	sort.Strings(names)

	return names, nil
}

// ReadFile returns a snapshot of the records in name.
func (m *MemoryLedger) ReadFile(_ context.Context, name string) ([]core.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.files[name]
	if !ok {
		return nil, core.Errorf("ledger.read", core.KindNotFound, "file %q", name)
	}

	out := make([]core.Record, len(f.records))
	for i, r := range f.records {
		r.Payload = append([]byte(nil), r.Payload...)
		out[i] = r
	}

	return out, nil
}

// LatestFile returns the most recently written file.
func (m *MemoryLedger) LatestFile(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		latest string
		best   *memFile
	)

	for name, f := range m.files {
		if best == nil || f.modTime.After(best.modTime) || (f.modTime.Equal(best.modTime) && f.seq > best.seq) {
			latest, best = name, f
		}
	}

	if best == nil {
		return "", core.Errorf("ledger.latest", core.KindNotFound, "no log files")
	}

	return latest, nil
}
