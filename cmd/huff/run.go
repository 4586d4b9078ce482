package main

import (
	"context"
	"fmt"
	"io"

	"github.com/ZaninAndrea/huffman/internal/config"
	"github.com/ZaninAndrea/huffman/internal/huffman"
	"github.com/ZaninAndrea/huffman/internal/stats"
	"github.com/ZaninAndrea/huffman/internal/storage"
	"github.com/ZaninAndrea/huffman/pkg/logger"
)

// run executes one compress or decompress job. On failure the output is
// discarded so no partial container or text is left behind.
func run(ctx context.Context, cfg config.Config, store *storage.Store, stdout io.Writer, logg logger.Logger) error {
	in, err := storage.ParseLocation(cfg.Input)
	if err != nil {
		return err
	}
	out, err := storage.ParseLocation(cfg.Output)
	if err != nil {
		return err
	}
	if in.SameAs(out) {
		return fmt.Errorf("%w: output %s is the input file", config.ErrUsage, out)
	}

	src, err := store.Open(ctx, in)
	if err != nil {
		return err
	}
	defer src.Close()

	sink, err := store.Create(ctx, out)
	if err != nil {
		return err
	}

	var result huffman.Stats
	switch cfg.Mode {
	case config.CompressMode:
		result, err = huffman.Compress(src, sink)
	case config.DecompressMode:
		result, err = huffman.Decompress(src, sink)
	default:
		err = fmt.Errorf("unknown mode %d", cfg.Mode)
	}
	if err != nil {
		if abortErr := sink.Abort(); abortErr != nil {
			logg.Errorf("discarding %s: %v", out, abortErr)
		}
		return err
	}

	if err := sink.Commit(ctx); err != nil {
		return err
	}
	logg.Infof("%s %s -> %s", cfg.Mode, in, out)

	if cfg.PrintTable {
		fmt.Fprint(stdout, result.Table.String())
	}

	if cfg.Mode != config.CompressMode {
		return nil
	}

	summary := stats.Summarize(result.InputBytes, result.ContainerBytes)
	if cfg.CompareLZ4 {
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return err
		}
		data, err := io.ReadAll(src)
		if err != nil {
			return err
		}
		if summary, err = summary.WithLZ4(data); err != nil {
			return err
		}
	}

	_, err = summary.WriteTo(stdout)
	return err
}
