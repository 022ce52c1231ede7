// Package ledger implements the persistence and content-addressing
// collaborators.
//
// Records are appended as one JSON object per line, one file per day per
// agent, named "<agent>_<YYYYMMDD>.jsonl". Record ids increase monotonically
// across all files of a ledger. FileLedger persists to a directory while
// MemoryLedger keeps the same layout in process for tests and demos.
//
// ContentStore hands out CIDv0 style identifiers ("Qm..."), the base58 encoding
// of a sha2-256 multihash of the payload. Callers treat them as opaque strings.
package ledger
