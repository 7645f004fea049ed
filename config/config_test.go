package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/pingcap/check"
)

func Test(t *testing.T) {
	TestingT(t)
}

var _ = Suite(&testConfigSuite{})

type testConfigSuite struct{}

func (s *testConfigSuite) TestDefault(c *C) {
	cfg := NewDefaultConfig()
	c.Assert(cfg.Validate(), IsNil)
	c.Assert(cfg.Host, Equals, "127.0.0.1")
	c.Assert(cfg.Port, Equals, 3000)
	c.Assert(cfg.Namespace, Equals, "test")
	c.Assert(cfg.Set, Equals, "demo")
	c.Assert(cfg.Scan.BatchSize, Equals, 1000)
	c.Assert(cfg.Scan.FlushTail, IsTrue)
	c.Assert(cfg.Generator.Count(), Equals, int64(100000))
	c.Assert(cfg.Addr(), Equals, "127.0.0.1:3000")
}

func (s *testConfigSuite) TestValidate(c *C) {
	cfg := NewDefaultConfig()
	cfg.Port = 0
	c.Assert(cfg.Validate(), NotNil)

	cfg = NewDefaultConfig()
	cfg.Generator.Start, cfg.Generator.End = 10, 9
	c.Assert(cfg.Validate(), NotNil)

	cfg = NewDefaultConfig()
	cfg.Scan.BatchSize = 0
	c.Assert(cfg.Validate(), NotNil)

	cfg = NewDefaultConfig()
	cfg.Namespace = ""
	c.Assert(cfg.Validate(), NotNil)
}

func (s *testConfigSuite) TestLoadFile(c *C) {
	dir, err := ioutil.TempDir("", "asbatch-config")
	c.Assert(err, IsNil)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "asbatch.toml")
	content := `
host = "10.0.0.1"
namespace = "bar"

[scan]
batch-size = 250
flush-tail = false

[aerospike]
timeout = "5s"

[log]
level = "debug"
`
	c.Assert(ioutil.WriteFile(path, []byte(content), 0644), IsNil)

	cfg := NewDefaultConfig()
	c.Assert(cfg.LoadFile(path), IsNil)
	c.Assert(cfg.Host, Equals, "10.0.0.1")
	c.Assert(cfg.Port, Equals, 3000)
	c.Assert(cfg.Namespace, Equals, "bar")
	c.Assert(cfg.Set, Equals, "demo")
	c.Assert(cfg.Scan.BatchSize, Equals, 250)
	c.Assert(cfg.Scan.FlushTail, IsFalse)
	c.Assert(cfg.Aerospike.Timeout.Duration, Equals, 5*time.Second)
	c.Assert(cfg.Log.Level, Equals, "debug")
}

func (s *testConfigSuite) TestLoadFileUndecoded(c *C) {
	dir, err := ioutil.TempDir("", "asbatch-config")
	c.Assert(err, IsNil)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "asbatch.toml")
	c.Assert(ioutil.WriteFile(path, []byte("hots = \"typo\"\n"), 0644), IsNil)
	c.Assert(NewDefaultConfig().LoadFile(path), ErrorMatches, ".*invalid configuration options: hots.*")
}

func (s *testConfigSuite) TestProperties(c *C) {
	p, err := LoadProperties(nil, []string{
		"port=4000",
		"generator.end=42",
		"scan.flush-tail=false",
		"aerospike.timeout=2s",
	})
	c.Assert(err, IsNil)

	cfg := NewDefaultConfig()
	c.Assert(cfg.ApplyProperties(p), IsNil)
	c.Assert(cfg.Port, Equals, 4000)
	c.Assert(cfg.Generator.End, Equals, int64(42))
	c.Assert(cfg.Scan.FlushTail, IsFalse)
	c.Assert(cfg.Aerospike.Timeout.Duration, Equals, 2*time.Second)
}

func (s *testConfigSuite) TestBadProperties(c *C) {
	_, err := LoadProperties(nil, []string{"port"})
	c.Assert(err, NotNil)

	p, err := LoadProperties(nil, []string{"no.such.key=1"})
	c.Assert(err, IsNil)
	c.Assert(NewDefaultConfig().ApplyProperties(p), NotNil)

	p, err = LoadProperties(nil, []string{"port=abc"})
	c.Assert(err, IsNil)
	c.Assert(NewDefaultConfig().ApplyProperties(p), NotNil)
}
