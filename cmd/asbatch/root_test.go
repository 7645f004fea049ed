package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"strings"
	"testing"

	"github.com/pingcap-incubator/asbatch/config"
	"github.com/pingcap-incubator/asbatch/store"
	"github.com/pingcap-incubator/asbatch/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/pingcap-incubator/asbatch/store/leveldb"
)

const probeStore = "probe"

var probeOpened int

func init() {
	store.Register(probeStore, store.CreatorFunc(func(cfg *config.Config) (store.Store, error) {
		probeOpened++
		return memory.NewStore(), nil
	}))
}

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCommand(context.Background(), &out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestUsageDoesNotTouchStore(t *testing.T) {
	probeOpened = 0
	out, err := execute(t, "-u", "--store", probeStore)
	require.Nil(t, err)
	assert.Equal(t, 0, probeOpened)
	for _, flag := range []string{"--host", "--port", "--namespace", "--set", "--gen", "--usage"} {
		assert.Contains(t, out, flag)
	}

	out, err = execute(t, "--usage", "-g", "--store", probeStore)
	require.Nil(t, err)
	assert.Equal(t, 0, probeOpened)
	assert.Contains(t, out, "Usage:")
}

func TestHelpFlag(t *testing.T) {
	probeOpened = 0
	out, err := execute(t, "--help", "--store", probeStore)
	require.Nil(t, err)
	assert.Equal(t, 0, probeOpened)
	assert.Contains(t, out, "-h, --host")
}

func TestShortFlags(t *testing.T) {
	probeOpened = 0
	out, err := execute(t, "-h", "10.1.1.1", "-p", "3100", "-n", "bar", "-s", "users", "-g",
		"--end", "20", "--store", probeStore, "--log-level", "error")
	require.Nil(t, err)
	assert.Equal(t, 1, probeOpened)
	assert.Contains(t, out, "Run finished")
}

func TestInvalidConfig(t *testing.T) {
	probeOpened = 0
	_, err := execute(t, "--batch-size", "0", "--store", probeStore)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "batch size")
	assert.Equal(t, 0, probeOpened)

	_, err = execute(t, "--prop", "port", "--store", probeStore)
	assert.NotNil(t, err)

	_, err = execute(t, "--store", "no-such-store")
	assert.NotNil(t, err)
}

func TestGenerateThenScan(t *testing.T) {
	dir, err := ioutil.TempDir("", "asbatch-cmd")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	common := []string{"--store", "leveldb", "--prop", "leveldb.path=" + dir, "--log-level", "error"}

	_, err = execute(t, append([]string{"-g", "--start", "1", "--end", "50", "--prop", "generator.seed=7"}, common...)...)
	require.Nil(t, err)

	out, err := execute(t, append([]string{"--batch-size", "20"}, common...)...)
	require.Nil(t, err)
	assert.Equal(t, 2, strings.Count(out, "Processed 20 records\n"))
	assert.Equal(t, 1, strings.Count(out, "Processed 10 records (final partial batch)"))
	assert.Contains(t, out, strings.Repeat("+", 20)+"\n")

	out, err = execute(t, append([]string{"--batch-size", "20", "--prop", "scan.flush-tail=false"}, common...)...)
	require.Nil(t, err)
	assert.Equal(t, 2, strings.Count(out, "Processed 20 records\n"))
	assert.NotContains(t, out, "final partial batch")
}
