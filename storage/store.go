// Package storage implements the persistence store contract of spec.md §6:
// a small store/read/delete/list/backup API keyed by (kind, id), treated by
// the rest of the codebase as an opaque external collaborator. Two
// implementations are provided: memkv (in-memory, for tests) and sqlite
// (grounded on storage/database.go and storage/sqlite_logger.go's
// database/sql + mattn/go-sqlite3 design, generalized from the teacher's
// fixed NetworkSnapshots/NeuronStates tables to one table per kind).
//
// Values are msgpack-encoded (github.com/vmihailenco/msgpack/v5), the same
// codec qubicDB-qubicdb's pkg/persistence/codec.go uses for its own
// entities, so every stored entity round-trips through the same wire
// format regardless of backend.
package storage

import (
	"fmt"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
)

// Record is one (id, value) pair returned by List, with value still in the
// msgpack-encoded []byte form it was stored as — callers decode into their own concrete type via msgpack.Unmarshal.
type Record struct {
	Id    ids.Id
	Value []byte
}

// Store is the persistence contract of spec.md §6. Every method is keyed
// by kind, one of the closed set in ids.Kind. Implementations must make
// single-key writes atomic; no multi-key transaction support is required.
type Store interface {
	Store(kind ids.Kind, id ids.Id, value any) error
	Read(kind ids.Kind, id ids.Id, out any) (bool, error)
	Delete(kind ids.Kind, id ids.Id) error
	List(kind ids.Kind) ([]Record, error)
	Backup(path string) (string, error)
}

// allKinds enumerates spec.md §6's closed kind set, used by
// SQLiteStore.createTables to create one table for every kind rather than
// just the ones a caller happens to have touched.
var allKinds = []ids.Kind{
	ids.KindExperiment, ids.KindPopulation, ids.KindSpecie, ids.KindAgent,
	ids.KindCortex, ids.KindNeuron, ids.KindSensor, ids.KindActuator,
	ids.KindSubstrateCPP, ids.KindSubstrateCEP, ids.KindMorphology,
	ids.KindTrace, ids.KindStat, ids.KindChampion,
}

// kindTable maps a kind to its SQLite table name; only SQLiteStore uses
// it. Read reports "not found"
// via its bool return per spec.md §6's `Some(value) | None`, not a
// sentinel error, matching the teacher's plain-return style.
func kindTable(kind ids.Kind) string {
	return fmt.Sprintf("kind_%s", kind)
}
