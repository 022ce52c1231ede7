package core

import (
	"context"
	"encoding/json"
	"time"
)

// Searcher retrieves knowledge sources for a topic from the named providers.
// Implementations must map unknown provider types to SourceOther.
type Searcher interface {
	Search(ctx context.Context, topic string, sources []string) ([]KnowledgeSource, error)
}

// Signer signs and hashes byte payloads. Both operations are deterministic and
// return fixed-length hex strings.
type Signer interface {
	Sign(data []byte) (string, error)
	Hash(data []byte) (string, error)
}

// ContentAddresser stores a payload and returns an opaque identifier for it.
type ContentAddresser interface {
	Put(ctx context.Context, data []byte) (string, error)
}

// Record is one line of the append-only log.
type Record struct {
	ID        uint64          `json:"id"`
	Agent     string          `json:"agent"`
	Kind      string          `json:"kind"`
	Timestamp time.Time       `json:"timestamp"`
	CID       string          `json:"cid,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

// RecordSink appends records. IDs are assigned by the sink and increase monotonically.
type RecordSink interface {
	Append(ctx context.Context, rec Record) (Record, error)
}

// RecordReader is the read path of the persistence collaborator.
type RecordReader interface {
	ListFiles(ctx context.Context) ([]string, error)
	ReadFile(ctx context.Context, name string) ([]Record, error)
	LatestFile(ctx context.Context) (string, error)
}

// Ledger combines the write and read paths.
type Ledger interface {
	RecordSink
	RecordReader
}
