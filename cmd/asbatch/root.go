package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pingcap-incubator/asbatch/config"
	"github.com/pingcap-incubator/asbatch/generator"
	"github.com/pingcap-incubator/asbatch/measurement"
	"github.com/pingcap-incubator/asbatch/metrics"
	"github.com/pingcap-incubator/asbatch/scan"
	"github.com/pingcap-incubator/asbatch/store"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const (
	modeGenerate = "generate"
	modeScan     = "scan"
)

type options struct {
	ctx context.Context
	out io.Writer

	configFile     string
	propertyFiles  []string
	propertyValues []string

	host       string
	port       int
	namespace  string
	set        string
	storeName  string
	start      int64
	end        int64
	target     int
	batchSize  int
	statusAddr string
	logLevel   string

	gen   bool
	usage bool
}

func newRootCommand(ctx context.Context, out io.Writer) *cobra.Command {
	opts := &options{ctx: ctx, out: out}
	m := &cobra.Command{
		Use:   "asbatch [<options>]",
		Short: "Generate synthetic users or scan them in batches",
		Long: "asbatch writes synthetic user records to a key-value store (-g) or scans\n" +
			"a namespace/set and processes the records in batches of --batch-size.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd)
		},
	}
	m.SetOutput(out)

	defaults := config.NewDefaultConfig()
	fs := m.Flags()
	fs.StringVarP(&opts.host, "host", "h", defaults.Host, "Server hostname")
	fs.IntVarP(&opts.port, "port", "p", defaults.Port, "Server port")
	fs.StringVarP(&opts.namespace, "namespace", "n", defaults.Namespace, "Namespace")
	fs.StringVarP(&opts.set, "set", "s", defaults.Set, "Set")
	fs.BoolVarP(&opts.gen, "gen", "g", false, "Generate data")
	fs.BoolVarP(&opts.usage, "usage", "u", false, "Print usage.")
	// -h is taken by --host.
	fs.Bool("help", false, "help for asbatch")

	fs.StringVar(&opts.configFile, "config", "", "Config file")
	fs.StringSliceVarP(&opts.propertyFiles, "property-file", "P", nil, "Specify a property file")
	fs.StringArrayVar(&opts.propertyValues, "prop", nil, "Specify a property value with name=value")
	fs.StringVar(&opts.storeName, "store", defaults.Store, "Store backend, one of: "+strings.Join(store.Names(), ", "))
	fs.Int64Var(&opts.start, "start", defaults.Generator.Start, "First user id to generate")
	fs.Int64Var(&opts.end, "end", defaults.Generator.End, "Last user id to generate")
	fs.IntVar(&opts.target, "target", 0, "Attempt to write n records per second (default: unlimited)")
	fs.IntVar(&opts.batchSize, "batch-size", defaults.Scan.BatchSize, "Number of scanned records per batch")
	fs.StringVar(&opts.statusAddr, "status-addr", "", "Serve /metrics and /status on this address")
	fs.StringVarP(&opts.logLevel, "log-level", "L", "", "Log level: debug, info, warn, error")
	return m
}

// loadConfig layers defaults, the config file, properties and explicitly
// set flags, in that order.
func (o *options) loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if o.configFile != "" {
		if err := cfg.LoadFile(o.configFile); err != nil {
			return nil, err
		}
	}

	props, err := config.LoadProperties(o.propertyFiles, o.propertyValues)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyProperties(props); err != nil {
		return nil, err
	}

	if fs.Changed("host") {
		cfg.Host = o.host
	}
	if fs.Changed("port") {
		cfg.Port = o.port
	}
	if fs.Changed("namespace") {
		cfg.Namespace = o.namespace
	}
	if fs.Changed("set") {
		cfg.Set = o.set
	}
	if fs.Changed("store") {
		cfg.Store = o.storeName
	}
	if fs.Changed("start") {
		cfg.Generator.Start = o.start
	}
	if fs.Changed("end") {
		cfg.Generator.End = o.end
	}
	if fs.Changed("target") {
		cfg.Generator.Target = o.target
	}
	if fs.Changed("batch-size") {
		cfg.Scan.BatchSize = o.batchSize
	}
	if fs.Changed("status-addr") {
		cfg.StatusAddr = o.statusAddr
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Annotate(err, "invalid configuration")
	}
	return cfg, nil
}

func (o *options) run(cmd *cobra.Command) error {
	if o.usage {
		return cmd.Help()
	}

	cfg, err := o.loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.SetupLogger(); err != nil {
		return errors.Annotate(err, "initialize logger")
	}
	log.ReplaceGlobals(cfg.GetZapLogger(), cfg.GetZapLogProperties())
	defer log.Sync()
	log.Debug("config", zap.Stringer("config", cfg))

	mode := modeScan
	if o.gen {
		mode = modeGenerate
	}
	if cfg.StatusAddr != "" {
		ctx, cancel := context.WithCancel(o.ctx)
		defer cancel()
		metrics.StartStatusServer(ctx, cfg.StatusAddr, metrics.Status{Mode: mode, StartTime: time.Now()})
	}

	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("close store failed", zap.Error(err))
		}
	}()

	start := time.Now()
	if o.gen {
		_, err = generator.New(st, cfg.Namespace, cfg.Set, &cfg.Generator).Run(o.ctx)
	} else {
		_, err = scan.NewScanner(st, cfg.Namespace, cfg.Set, &cfg.Scan, scan.NewProgressProcessor(o.out)).Run(o.ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(o.out, "Run finished, takes %s\n", time.Since(start))
	measurement.Output(o.out)
	return nil
}
