package ledger

import (
	"context"
	"crypto/sha256"
	"sync"

	"github.com/mr-tron/base58"

	"github.com/while-basic/celaya-parachain-sub001/core"
)

// multihash prefix for sha2-256 with a 32 byte digest
var sha256Multihash = []byte{0x12, 0x20}

// CID returns the CIDv0 identifier of data.
func CID(data []byte) string {
	sum := sha256.Sum256(data)
	return base58.Encode(append(append([]byte{}, sha256Multihash...), sum[:]...))
}

// ContentStore is an in-memory content-addressed blob store.
type ContentStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewContentStore returns an empty store.
func NewContentStore() *ContentStore {
	return &ContentStore{blobs: map[string][]byte{}}
}

// Put stores a copy of data and returns its CID. Storing the same bytes twice
// returns the same CID.
func (s *ContentStore) Put(_ context.Context, data []byte) (string, error) {
	cid := CID(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[cid]; !ok {
		s.blobs[cid] = append([]byte(nil), data...)
	}

	return cid, nil
}

// Get returns a copy of the blob stored under cid.
func (s *ContentStore) Get(_ context.Context, cid string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blobs[cid]
	if !ok {
		return nil, core.Errorf("ledger.cas.get", core.KindNotFound, "cid %s", cid)
	}

	return append([]byte(nil), b...), nil
}

// Len returns the number of stored blobs.
func (s *ContentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.blobs)
}
