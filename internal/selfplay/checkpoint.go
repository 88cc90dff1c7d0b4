package selfplay

import (
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// WorkerProgress is what CheckpointStore persists per worker so a killed
// `datagen` run can report resumable progress on the next launch, grounded
// on the storage.Storage JSON-blob-per-key pattern.
type WorkerProgress struct {
	WorkerID       int
	PositionsWritten uint64
	GamesCompleted   uint64
	LastGamePath     string
}

// CheckpointStore wraps a badger.DB holding one WorkerProgress record per
// worker plus a single "last completed game" pointer (SPEC_FULL.md §2
// domain-stack wiring for github.com/dgraph-io/badger/v4).
type CheckpointStore struct {
	db *badger.DB
}

// OpenCheckpointStore opens (or creates) the checkpoint database at dir.
func OpenCheckpointStore(dir string) (*CheckpointStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("selfplay: opening checkpoint store: %w", err)
	}
	return &CheckpointStore{db: db}, nil
}

func (c *CheckpointStore) Close() error { return c.db.Close() }

func workerKey(id int) []byte { return []byte(fmt.Sprintf("worker:%d", id)) }

// Save records a worker's current progress.
func (c *CheckpointStore) Save(p WorkerProgress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(workerKey(p.WorkerID), data)
	})
}

// Load returns the last saved progress for a worker, or the zero value if
// none was ever recorded.
func (c *CheckpointStore) Load(id int) (WorkerProgress, error) {
	var p WorkerProgress
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(workerKey(id))
		if err == badger.ErrKeyNotFound {
			p = WorkerProgress{WorkerID: id}
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	return p, err
}

// SetLastCompletedGame records the path of the most recently fully-written
// game file, so a resumed run can verify it wasn't truncated by a crash.
func (c *CheckpointStore) SetLastCompletedGame(path string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("last_completed_game"), []byte(path))
	})
}

// LastCompletedGame returns the last recorded completed-game path, or "" if
// none has been recorded yet.
func (c *CheckpointStore) LastCompletedGame() (string, error) {
	var path string
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("last_completed_game"))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			path = string(val)
			return nil
		})
	})
	return path, err
}
