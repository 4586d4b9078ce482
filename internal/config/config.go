package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path"
	"strings"
)

var ErrUsage = errors.New("usage error")

type Mode uint8

const (
	CompressMode Mode = iota
	DecompressMode
)

func (m Mode) String() string {
	if m == DecompressMode {
		return "decompress"
	}
	return "compress"
}

type S3 struct {
	Region    string
	Endpoint  string
	PathStyle bool

	AccessKeyID     string
	SecretAccessKey string
}

type Config struct {
	Mode   Mode
	Input  string
	Output string

	PrintTable bool
	CompareLZ4 bool

	S3 S3
}

// Load parses the command line. env supplies defaults for the S3 settings
// and is usually os.Getenv. An empty Input means the caller should prompt
// for it and call Resolve.
func Load(args []string, env func(string) string, stderr io.Writer) (Config, error) {
	cfg := Config{}

	fs := flag.NewFlagSet("huff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: huff [flags] <file.txt|file.bin>\n\n")
		fmt.Fprintf(stderr, ".txt inputs are compressed, .bin inputs are decompressed.\n")
		fmt.Fprintf(stderr, "Locations may be local paths or s3://bucket/key.\n\n")
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.Output, "o", "", "output location (default derived from the input)")
	fs.BoolVar(&cfg.PrintTable, "p", false, "print the code table")
	fs.BoolVar(&cfg.CompareLZ4, "lz4", false, "report the LZ4 size of the input after compressing")
	fs.StringVar(&cfg.S3.Region, "s3-region", env("HUFF_S3_REGION"), "S3 region")
	fs.StringVar(&cfg.S3.Endpoint, "s3-endpoint", env("HUFF_S3_ENDPOINT"), "custom S3 endpoint URL")
	fs.BoolVar(&cfg.S3.PathStyle, "s3-path-style", false, "use path-style S3 addressing")

	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrUsage, err)
	}

	cfg.S3.AccessKeyID = env("HUFF_S3_ACCESS_KEY_ID")
	cfg.S3.SecretAccessKey = env("HUFF_S3_SECRET_ACCESS_KEY")

	switch fs.NArg() {
	case 0:
		return cfg, nil
	case 1:
		return cfg.Resolve(fs.Arg(0))
	default:
		return Config{}, fmt.Errorf("%w: expected one input, got %d", ErrUsage, fs.NArg())
	}
}

// Resolve sets the input and picks the mode from its extension:
// .txt compresses to <stem>.bin and .bin decompresses to <stem>.decoded.txt.
func (c Config) Resolve(input string) (Config, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Config{}, fmt.Errorf("%w: no input given", ErrUsage)
	}

	ext := path.Ext(input)
	stem := strings.TrimSuffix(input, ext)
	derived := ""
	switch strings.ToLower(ext) {
	case ".txt":
		c.Mode = CompressMode
		derived = stem + ".bin"
	case ".bin":
		c.Mode = DecompressMode
		derived = stem + ".decoded.txt"
	default:
		return Config{}, fmt.Errorf("%w: %q is neither a .txt nor a .bin file", ErrUsage, input)
	}

	c.Input = input
	if c.Output == "" {
		c.Output = derived
	}
	return c, nil
}
