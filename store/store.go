package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pingcap-incubator/asbatch/config"
	"github.com/pingcap/errors"
)

// Bins maps field names to values. Values are strings, int64s or
// []interface{} lists, the types every backend can round-trip.
type Bins map[string]interface{}

// Record is one entry delivered by a scan.
type Record struct {
	// Key is the user key the record was written with.
	Key  string
	Bins Bins
}

// ScanFunc is called once per scanned record. Returning an error stops the scan.
type ScanFunc func(rec *Record) error

// Store is the key-value database the generator writes to and the scan reads from.
type Store interface {
	// Put writes a record under namespace/set/key, replacing any previous one.
	Put(ctx context.Context, namespace, set, key string, bins Bins) error

	// ScanAll visits every record of namespace/set. binNames limits the
	// returned fields, nil|empty for reading all. fn is invoked synchronously
	// from the calling goroutine.
	ScanAll(ctx context.Context, namespace, set string, binNames []string, fn ScanFunc) error

	// Close releases the connection or files held by the store.
	Close() error
}

// Creator creates a store from the configuration.
type Creator interface {
	Create(cfg *config.Config) (Store, error)
}

// CreatorFunc adapts a function to Creator.
type CreatorFunc func(cfg *config.Config) (Store, error)

// Create implements Creator.
func (f CreatorFunc) Create(cfg *config.Config) (Store, error) {
	return f(cfg)
}

var creators = map[string]Creator{}

// Register registers a creator for the store.
func Register(name string, creator Creator) {
	_, ok := creators[name]
	if ok {
		panic(fmt.Sprintf("duplicate register store %s", name))
	}

	creators[name] = creator
}

// Names lists the registered store names in order.
func Names() []string {
	names := make([]string, 0, len(creators))
	for name := range creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open creates the store named by cfg.Store.
func Open(cfg *config.Config) (Store, error) {
	creator, ok := creators[cfg.Store]
	if !ok {
		return nil, errors.Errorf("store %s is not registered, available: %s",
			cfg.Store, strings.Join(Names(), ", "))
	}
	s, err := creator.Create(cfg)
	if err != nil {
		return nil, errors.Annotatef(err, "create store %s", cfg.Store)
	}
	return s, nil
}

// Project returns the bins named in binNames, or all bins when binNames is empty.
func Project(bins Bins, binNames []string) Bins {
	if len(binNames) == 0 {
		res := make(Bins, len(bins))
		for k, v := range bins {
			res[k] = v
		}
		return res
	}
	res := make(Bins, len(binNames))
	for _, name := range binNames {
		if v, ok := bins[name]; ok {
			res[name] = v
		}
	}
	return res
}
