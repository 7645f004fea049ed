package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/google/btree"
	"github.com/pingcap-incubator/asbatch/config"
	"github.com/pingcap-incubator/asbatch/store"
	"github.com/pingcap/errors"
)

// Name is the registered store name.
const Name = "memory"

const btreeDegree = 32

type recordItem struct {
	key []byte
	rec store.Record
}

var _ btree.Item = &recordItem{}

// Less returns true if the record key is less than the other.
func (r *recordItem) Less(other btree.Item) bool {
	return bytes.Compare(r.key, other.(*recordItem).key) < 0
}

// Store keeps records in an in-process B-tree ordered by namespace, set and key.
type Store struct {
	sync.RWMutex
	tree   *btree.BTree
	closed bool
}

// NewStore creates an empty memory store.
func NewStore() *Store {
	return &Store{tree: btree.New(btreeDegree)}
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, namespace, set, key string, bins store.Bins) error {
	if err := ctx.Err(); err != nil {
		return errors.Trace(err)
	}
	if err := store.ValidateName(namespace); err != nil {
		return err
	}
	if err := store.ValidateName(set); err != nil {
		return err
	}
	item := &recordItem{
		key: store.EncodeKey(namespace, set, key),
		rec: store.Record{Key: key, Bins: store.Project(bins, nil)},
	}

	s.Lock()
	defer s.Unlock()
	if s.closed {
		return errors.New("memory store is closed")
	}
	s.tree.ReplaceOrInsert(item)
	return nil
}

// ScanAll implements store.Store. Records are visited in key order.
func (s *Store) ScanAll(ctx context.Context, namespace, set string, binNames []string, fn store.ScanFunc) error {
	prefix := store.EncodePrefix(namespace, set)

	// Collect first so fn may call back into the store.
	var recs []*store.Record
	s.RLock()
	if s.closed {
		s.RUnlock()
		return errors.New("memory store is closed")
	}
	s.tree.AscendGreaterOrEqual(&recordItem{key: prefix}, func(i btree.Item) bool {
		item := i.(*recordItem)
		if !bytes.HasPrefix(item.key, prefix) {
			return false
		}
		recs = append(recs, &store.Record{Key: item.rec.Key, Bins: store.Project(item.rec.Bins, binNames)})
		return true
	})
	s.RUnlock()

	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return errors.Trace(err)
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.RLock()
	defer s.RUnlock()
	return s.tree.Len()
}

// Close implements store.Store.
func (s *Store) Close() error {
	s.Lock()
	s.closed = true
	s.tree.Clear(false)
	s.Unlock()
	return nil
}

type memoryCreator struct{}

func (memoryCreator) Create(cfg *config.Config) (store.Store, error) {
	return NewStore(), nil
}

func init() {
	store.Register(Name, memoryCreator{})
}
