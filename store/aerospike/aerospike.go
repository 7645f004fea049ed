package aerospike

import (
	"context"
	"fmt"

	as "github.com/aerospike/aerospike-client-go"
	"github.com/pingcap-incubator/asbatch/config"
	"github.com/pingcap-incubator/asbatch/store"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Name is the registered store name.
const Name = "aerospike"

// Store talks to an Aerospike cluster through the official client.
type Store struct {
	client          *as.Client
	writePolicy     *as.WritePolicy
	concurrentNodes bool
}

// NewStore connects to the seed node described by cfg.
func NewStore(cfg *config.Config) (*Store, error) {
	policy := as.NewClientPolicy()
	if cfg.Aerospike.Timeout.Duration > 0 {
		policy.Timeout = cfg.Aerospike.Timeout.Duration
	}
	policy.User = cfg.Aerospike.User
	policy.Password = cfg.Aerospike.Password

	client, err := as.NewClientWithPolicy(policy, cfg.Host, cfg.Port)
	if err != nil {
		return nil, errors.Annotatef(err, "connect to aerospike %s", cfg.Addr())
	}
	log.Info("connected to aerospike",
		zap.String("addr", cfg.Addr()),
		zap.Int("nodes", len(client.GetNodes())))

	writePolicy := as.NewWritePolicy(0, 0)
	// Keep the user key so scans can report it.
	writePolicy.SendKey = true
	return &Store{
		client:          client,
		writePolicy:     writePolicy,
		concurrentNodes: cfg.Aerospike.ConcurrentNodes,
	}, nil
}

// Put implements store.Store.
func (s *Store) Put(ctx context.Context, namespace, set, key string, bins store.Bins) error {
	if err := ctx.Err(); err != nil {
		return errors.Trace(err)
	}
	asKey, err := as.NewKey(namespace, set, key)
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(s.client.Put(s.writePolicy, asKey, as.BinMap(bins)))
}

// ScanAll implements store.Store. The client fans the scan out to the nodes
// and delivers results over a channel; fn runs on the calling goroutine.
func (s *Store) ScanAll(ctx context.Context, namespace, set string, binNames []string, fn store.ScanFunc) error {
	policy := as.NewScanPolicy()
	policy.ConcurrentNodes = s.concurrentNodes
	recordset, err := s.client.ScanAll(policy, namespace, set, binNames...)
	if err != nil {
		return errors.Annotatef(err, "scan %s.%s", namespace, set)
	}
	defer recordset.Close()

	results := recordset.Results()
	for {
		select {
		case <-ctx.Done():
			return errors.Trace(ctx.Err())
		case res, ok := <-results:
			if !ok {
				return nil
			}
			if res.Err != nil {
				return errors.Annotatef(res.Err, "scan %s.%s", namespace, set)
			}
			if err := fn(toRecord(res.Record)); err != nil {
				return err
			}
		}
	}
}

// Close implements store.Store.
func (s *Store) Close() error {
	s.client.Close()
	return nil
}

func toRecord(r *as.Record) *store.Record {
	bins := make(store.Bins, len(r.Bins))
	for k, v := range r.Bins {
		bins[k] = normalize(v)
	}
	return &store.Record{Key: userKey(r.Key), Bins: bins}
}

// userKey falls back to the digest for records written without SendKey.
func userKey(k *as.Key) string {
	if k == nil {
		return ""
	}
	if v := k.Value(); v != nil {
		return v.String()
	}
	return fmt.Sprintf("%x", k.Digest())
}

// normalize maps client integer types onto int64.
func normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case []interface{}:
		res := make([]interface{}, len(x))
		for i := range x {
			res[i] = normalize(x[i])
		}
		return res
	}
	return v
}

type aerospikeCreator struct{}

func (aerospikeCreator) Create(cfg *config.Config) (store.Store, error) {
	return NewStore(cfg)
}

func init() {
	store.Register(Name, aerospikeCreator{})
}
