package store

import (
	"testing"

	"github.com/pingcap-incubator/asbatch/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCodec(t *testing.T) {
	b := EncodeKey("test", "demo", "user1")
	ns, set, key, err := DecodeKey(b)
	require.Nil(t, err)
	assert.Equal(t, "test", ns)
	assert.Equal(t, "demo", set)
	assert.Equal(t, "user1", key)

	assert.True(t, len(b) > len(EncodePrefix("test", "demo")))
	assert.Equal(t, EncodePrefix("test", "demo"), b[:len(EncodePrefix("test", "demo"))])

	_, _, _, err = DecodeKey([]byte("nosep"))
	assert.NotNil(t, err)

	assert.Nil(t, ValidateName("demo"))
	assert.NotNil(t, ValidateName("de\x00mo"))
}

func TestEmptySetPrefix(t *testing.T) {
	ns, set, key, err := DecodeKey(EncodeKey("test", "", "k"))
	require.Nil(t, err)
	assert.Equal(t, "test", ns)
	assert.Equal(t, "", set)
	assert.Equal(t, "k", key)
}

func TestProject(t *testing.T) {
	bins := Bins{"a": "1", "b": int64(2), "c": []interface{}{"x"}}

	all := Project(bins, nil)
	assert.Equal(t, bins, all)
	all["a"] = "changed"
	assert.Equal(t, "1", bins["a"])

	some := Project(bins, []string{"a", "missing"})
	assert.Equal(t, Bins{"a": "1"}, some)
}

func TestOpenUnknown(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.Store = "no-such-store"
	_, err := Open(cfg)
	assert.NotNil(t, err)
}

func TestRegister(t *testing.T) {
	var created int
	Register("store-test", CreatorFunc(func(cfg *config.Config) (Store, error) {
		created++
		return nil, nil
	}))
	assert.Contains(t, Names(), "store-test")
	assert.Panics(t, func() {
		Register("store-test", CreatorFunc(func(cfg *config.Config) (Store, error) { return nil, nil }))
	})

	cfg := config.NewTestConfig()
	cfg.Store = "store-test"
	_, err := Open(cfg)
	assert.Nil(t, err)
	assert.Equal(t, 1, created)
}
