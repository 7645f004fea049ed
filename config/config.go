package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the asbatch configuration.
type Config struct {
	Host       string `toml:"host" json:"host"`
	Port       int    `toml:"port" json:"port"`
	Namespace  string `toml:"namespace" json:"namespace"`
	Set        string `toml:"set" json:"set"`
	Store      string `toml:"store" json:"store"`           // Registered store backend name.
	StatusAddr string `toml:"status-addr" json:"status-addr"` // Serves /metrics and /status, empty disables it.

	Generator GeneratorConfig `toml:"generator" json:"generator"`
	Scan      ScanConfig      `toml:"scan" json:"scan"`
	Aerospike AerospikeConfig `toml:"aerospike" json:"aerospike"`
	LevelDB   LevelDBConfig   `toml:"leveldb" json:"leveldb"`

	// Log related config.
	Log log.Config `toml:"log" json:"log"`

	logger   *zap.Logger
	logProps *log.ZapProperties
}

// GeneratorConfig controls synthetic user generation.
type GeneratorConfig struct {
	// Start and End bound the user ids, both inclusive.
	Start int64 `toml:"start" json:"start"`
	End   int64 `toml:"end" json:"end"`
	// Seed for the random source, 0 picks one from the clock.
	Seed int64 `toml:"seed" json:"seed"`
	// Target caps the write rate in records per second, 0 means unlimited.
	Target int `toml:"target" json:"target"`
	// ReportInterval logs progress every n records.
	ReportInterval int64 `toml:"report-interval" json:"report-interval"`
}

// Count returns the number of ids in [Start, End].
func (c *GeneratorConfig) Count() int64 {
	if c.End < c.Start {
		return 0
	}
	return c.End - c.Start + 1
}

// ScanConfig controls the scan batcher.
type ScanConfig struct {
	BatchSize int `toml:"batch-size" json:"batch-size"`
	// FlushTail flushes the last partial batch once the scan ends. When false
	// those records are reported as dropped.
	FlushTail bool `toml:"flush-tail" json:"flush-tail"`
}

// AerospikeConfig holds client policy options.
type AerospikeConfig struct {
	Timeout         Duration `toml:"timeout" json:"timeout"`
	User            string   `toml:"user" json:"user"`
	Password        string   `toml:"password" json:"-"`
	ConcurrentNodes bool     `toml:"concurrent-nodes" json:"concurrent-nodes"`
}

// LevelDBConfig holds options of the local leveldb store.
type LevelDBConfig struct {
	Path string `toml:"path" json:"path"` // Directory to store the data in. Should exist and be writable.
}

const (
	defaultHost           = "127.0.0.1"
	defaultPort           = 3000
	defaultNamespace      = "test"
	defaultSet            = "demo"
	defaultStore          = "aerospike"
	defaultStart          = int64(1)
	defaultEnd            = int64(100000)
	defaultReportInterval = int64(10000)
	defaultBatchSize      = 1000
	defaultTimeout        = 30 * time.Second
	defaultLevelDBPath    = "/tmp/asbatch"
	defaultLogLevel       = "info"
)

func getLogLevel() (logLevel string) {
	logLevel = defaultLogLevel
	if l := os.Getenv("LOG_LEVEL"); len(l) != 0 {
		logLevel = l
	}
	return
}

// NewDefaultConfig returns the configuration used when nothing is overridden.
func NewDefaultConfig() *Config {
	return &Config{
		Host:      defaultHost,
		Port:      defaultPort,
		Namespace: defaultNamespace,
		Set:       defaultSet,
		Store:     defaultStore,
		Generator: GeneratorConfig{
			Start:          defaultStart,
			End:            defaultEnd,
			ReportInterval: defaultReportInterval,
		},
		Scan: ScanConfig{
			BatchSize: defaultBatchSize,
			FlushTail: true,
		},
		Aerospike: AerospikeConfig{
			Timeout:         NewDuration(defaultTimeout),
			ConcurrentNodes: true,
		},
		LevelDB: LevelDBConfig{
			Path: defaultLevelDBPath,
		},
		Log: log.Config{
			Level: getLogLevel(),
		},
	}
}

// NewTestConfig returns a small configuration backed by the memory store.
func NewTestConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Store = "memory"
	cfg.Generator.End = 100
	cfg.Generator.Seed = 1
	cfg.Generator.ReportInterval = 0
	return cfg
}

// LoadFile decodes a TOML file on top of the current values.
func (c *Config) LoadFile(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Annotatef(err, "load config file %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return errors.Errorf("config file %s contains invalid configuration options: %s",
			path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate is used to validate if some configurations are right.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("invalid port %d", c.Port)
	}
	if c.Namespace == "" {
		return errors.New("namespace must not be empty")
	}
	if c.Store == "" {
		return errors.New("store must not be empty")
	}
	if c.Generator.Start < 0 {
		return errors.Errorf("generator start must not be negative, got %d", c.Generator.Start)
	}
	if c.Generator.End < c.Generator.Start {
		return errors.Errorf("generator end %d is less than start %d", c.Generator.End, c.Generator.Start)
	}
	if c.Generator.Target < 0 {
		return errors.Errorf("generator target must not be negative, got %d", c.Generator.Target)
	}
	if c.Scan.BatchSize <= 0 {
		return errors.Errorf("scan batch size must be greater than 0, got %d", c.Scan.BatchSize)
	}
	return nil
}

// Addr returns host:port.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return "<nil>"
	}
	return string(data)
}

// SetupLogger setup the logger.
func (c *Config) SetupLogger() error {
	lg, p, err := log.InitLogger(&c.Log, zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		return errors.Trace(err)
	}
	c.logger = lg
	c.logProps = p
	return nil
}

// GetZapLogger gets the created zap logger.
func (c *Config) GetZapLogger() *zap.Logger {
	return c.logger
}

// GetZapLogProperties gets properties of the zap logger.
func (c *Config) GetZapLogProperties() *log.ZapProperties {
	return c.logProps
}
