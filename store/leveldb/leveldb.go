package leveldb

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pingcap-incubator/asbatch/config"
	"github.com/pingcap-incubator/asbatch/store"
	"github.com/pingcap/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Name is the registered store name.
const Name = "leveldb"

// Store is a store using a local leveldb directory.
type Store struct {
	*leveldb.DB
}

// NewStore opens or creates the leveldb directory at path.
func NewStore(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Annotatef(err, "open leveldb %s", path)
	}
	return &Store{DB: db}, nil
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
	value, err := encodeBins(bins)
	if err != nil {
		return err
	}
	return errors.Trace(s.DB.Put(store.EncodeKey(namespace, set, key), value, nil))
}

// ScanAll implements store.Store. Records are visited in key order.
func (s *Store) ScanAll(ctx context.Context, namespace, set string, binNames []string, fn store.ScanFunc) error {
	iter := s.NewIterator(util.BytesPrefix(store.EncodePrefix(namespace, set)), nil)
	defer iter.Release()
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return errors.Trace(err)
		}
		_, _, key, err := store.DecodeKey(iter.Key())
		if err != nil {
			return err
		}
		bins, err := decodeBins(iter.Value())
		if err != nil {
			return errors.Annotatef(err, "decode record %s", key)
		}
		if err := fn(&store.Record{Key: key, Bins: store.Project(bins, binNames)}); err != nil {
			return err
		}
	}
	return errors.Trace(iter.Error())
}

// Close implements store.Store.
func (s *Store) Close() error {
	return errors.Trace(s.DB.Close())
}

func encodeBins(bins store.Bins) ([]byte, error) {
	value, err := json.Marshal(bins)
	return value, errors.Trace(err)
}

func decodeBins(value []byte) (store.Bins, error) {
	d := json.NewDecoder(bytes.NewReader(value))
	d.UseNumber()
	var bins store.Bins
	if err := d.Decode(&bins); err != nil {
		return nil, errors.Trace(err)
	}
	for k, v := range bins {
		bins[k] = normalize(v)
	}
	return bins, nil
}

// normalize turns JSON numbers back into int64 where they fit, matching
// what the aerospike client returns for integer bins.
func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []interface{}:
		for i := range x {
			x[i] = normalize(x[i])
		}
		return x
	case map[string]interface{}:
		for k := range x {
			x[k] = normalize(x[k])
		}
		return x
	}
	return v
}

type leveldbCreator struct{}

func (leveldbCreator) Create(cfg *config.Config) (store.Store, error) {
	return NewStore(cfg.LevelDB.Path)
}

func init() {
	store.Register(Name, leveldbCreator{})
}
