package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pingcap/log"
	"go.uber.org/zap"

	// Register aerospike store
	_ "github.com/pingcap-incubator/asbatch/store/aerospike"
	// Register leveldb store
	_ "github.com/pingcap-incubator/asbatch/store/leveldb"
	// Register memory store
	_ "github.com/pingcap-incubator/asbatch/store/memory"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sc := make(chan os.Signal, 1)
	signal.Notify(sc,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)
	go func() {
		sig := <-sc
		log.Info("Got signal to exit", zap.String("signal", sig.String()))
		cancel()
	}()

	rootCmd := newRootCommand(ctx, os.Stdout)
	err := rootCmd.Execute()
	cancel()
	if err != nil {
		log.Error("critical error", zap.Error(err))
		exit(1)
	}
	exit(0)
}

func exit(code int) {
	log.Sync()
	os.Exit(code)
}
