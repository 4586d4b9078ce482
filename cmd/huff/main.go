package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaninAndrea/huffman/internal/config"
	"github.com/ZaninAndrea/huffman/internal/storage"
	"github.com/ZaninAndrea/huffman/pkg/logger"
)

func main() {
	logg := logger.New(os.Stderr)

	cfg, err := config.Load(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			logg.Errorf("%v", err)
		}
		os.Exit(2)
	}

	if cfg.Input == "" {
		fmt.Print("Type the name of the file to process: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			logg.Errorf("reading file name: %v", err)
			os.Exit(2)
		}
		if cfg, err = cfg.Resolve(line); err != nil {
			logg.Errorf("%v", err)
			os.Exit(2)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	store := storage.NewStore(cfg.S3, logg)
	if err := run(ctx, cfg, store, os.Stdout, logg); err != nil {
		logg.Errorf("%s %s: %v", cfg.Mode, cfg.Input, err)
		cancel()
		if errors.Is(err, config.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
