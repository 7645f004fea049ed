package leveldb

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"testing"

	"github.com/pingcap-incubator/asbatch/config"
	"github.com/pingcap-incubator/asbatch/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, func()) {
	dir, err := ioutil.TempDir("", "asbatch-leveldb")
	require.Nil(t, err)
	s, err := NewStore(dir)
	require.Nil(t, err)
	return s, func() {
		s.Close()
		os.RemoveAll(dir)
	}
}

func TestPutScan(t *testing.T) {
	s, clean := newTestStore(t)
	defer clean()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		key := fmt.Sprintf("user%d", i)
		bins := store.Bins{
			"username":   key,
			"tweetcount": int64(i),
			"interests":  []interface{}{"Music", "Hiking"},
		}
		require.Nil(t, s.Put(ctx, "test", "demo", key, bins))
	}
	require.Nil(t, s.Put(ctx, "test", "demox", "user4", store.Bins{"username": "user4"}))

	var recs []*store.Record
	err := s.ScanAll(ctx, "test", "demo", []string{"username", "tweetcount", "interests"}, func(rec *store.Record) error {
		recs = append(recs, rec)
		return nil
	})
	require.Nil(t, err)
	require.Len(t, recs, 3)
	for i, rec := range recs {
		assert.Equal(t, fmt.Sprintf("user%d", i+1), rec.Key)
		assert.Equal(t, rec.Key, rec.Bins["username"])
		assert.Equal(t, int64(i+1), rec.Bins["tweetcount"])
		assert.Equal(t, []interface{}{"Music", "Hiking"}, rec.Bins["interests"])
	}
}

func TestReopen(t *testing.T) {
	dir, err := ioutil.TempDir("", "asbatch-leveldb")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	cfg := config.NewTestConfig()
	cfg.Store = Name
	cfg.LevelDB.Path = dir

	s, err := store.Open(cfg)
	require.Nil(t, err)
	require.Nil(t, s.Put(context.Background(), "test", "demo", "user1", store.Bins{"gender": "f"}))
	require.Nil(t, s.Close())

	s, err = store.Open(cfg)
	require.Nil(t, err)
	defer s.Close()
	n := 0
	err = s.ScanAll(context.Background(), "test", "demo", nil, func(rec *store.Record) error {
		n++
		assert.Equal(t, "f", rec.Bins["gender"])
		return nil
	})
	require.Nil(t, err)
	assert.Equal(t, 1, n)
}

func TestNormalize(t *testing.T) {
	bins, err := decodeBins([]byte(`{"a":1,"b":1.5,"c":["x",2]}`))
	require.Nil(t, err)
	assert.Equal(t, int64(1), bins["a"])
	assert.Equal(t, 1.5, bins["b"])
	assert.Equal(t, []interface{}{"x", int64(2)}, bins["c"])
}
