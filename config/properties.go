package config

import (
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"github.com/pingcap/errors"
)

// Property names accepted by --prop and property files.
const (
	PropHost           = "host"
	PropPort           = "port"
	PropNamespace      = "namespace"
	PropSet            = "set"
	PropStore          = "store"
	PropStatusAddr     = "status-addr"
	PropGenStart       = "generator.start"
	PropGenEnd         = "generator.end"
	PropGenSeed        = "generator.seed"
	PropGenTarget      = "generator.target"
	PropGenReport      = "generator.report-interval"
	PropScanBatchSize  = "scan.batch-size"
	PropScanFlushTail  = "scan.flush-tail"
	PropAsTimeout      = "aerospike.timeout"
	PropAsUser         = "aerospike.user"
	PropAsPassword     = "aerospike.password"
	PropLevelDBPath    = "leveldb.path"
	PropLogLevel       = "log.level"
	PropLogFile        = "log.file"
	propValueSeparator = "="
)

// LoadProperties builds a property set from files and name=value pairs.
// Pairs are applied after the files, so they win.
func LoadProperties(files []string, values []string) (*properties.Properties, error) {
	p := properties.NewProperties()
	if len(files) > 0 {
		var err error
		p, err = properties.LoadFiles(files, properties.UTF8, false)
		if err != nil {
			return nil, errors.Annotate(err, "load property files")
		}
	}
	for _, kv := range values {
		seps := strings.SplitN(kv, propValueSeparator, 2)
		if len(seps) != 2 {
			return nil, errors.Errorf("bad property: `%s`, expected format `name=value`", kv)
		}
		if _, _, err := p.Set(strings.TrimSpace(seps[0]), seps[1]); err != nil {
			return nil, errors.Annotatef(err, "set property %s", seps[0])
		}
	}
	return p, nil
}

// ApplyProperties overrides the configuration with known properties.
// Unknown names are rejected so typos do not go unnoticed.
func (c *Config) ApplyProperties(p *properties.Properties) error {
	for _, key := range p.Keys() {
		value, _ := p.Get(key)
		if err := c.applyProperty(key, value); err != nil {
			return errors.Annotatef(err, "property %s", key)
		}
	}
	return nil
}

func (c *Config) applyProperty(key, value string) error {
	var err error
	switch key {
	case PropHost:
		c.Host = value
	case PropPort:
		c.Port, err = strconv.Atoi(value)
	case PropNamespace:
		c.Namespace = value
	case PropSet:
		c.Set = value
	case PropStore:
		c.Store = value
	case PropStatusAddr:
		c.StatusAddr = value
	case PropGenStart:
		c.Generator.Start, err = strconv.ParseInt(value, 10, 64)
	case PropGenEnd:
		c.Generator.End, err = strconv.ParseInt(value, 10, 64)
	case PropGenSeed:
		c.Generator.Seed, err = strconv.ParseInt(value, 10, 64)
	case PropGenTarget:
		c.Generator.Target, err = strconv.Atoi(value)
	case PropGenReport:
		c.Generator.ReportInterval, err = strconv.ParseInt(value, 10, 64)
	case PropScanBatchSize:
		c.Scan.BatchSize, err = strconv.Atoi(value)
	case PropScanFlushTail:
		c.Scan.FlushTail, err = strconv.ParseBool(value)
	case PropAsTimeout:
		err = c.Aerospike.Timeout.UnmarshalText([]byte(value))
	case PropAsUser:
		c.Aerospike.User = value
	case PropAsPassword:
		c.Aerospike.Password = value
	case PropLevelDBPath:
		c.LevelDB.Path = value
	case PropLogLevel:
		c.Log.Level = value
	case PropLogFile:
		c.Log.File.Filename = value
	default:
		return errors.New("unknown property")
	}
	return errors.Trace(err)
}
