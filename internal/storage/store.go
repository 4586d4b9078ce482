package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/transfermanager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ZaninAndrea/huffman/internal/config"
	"github.com/ZaninAndrea/huffman/pkg/logger"
)

// Sink receives an output stream. Nothing is visible at the destination
// until Commit; Abort discards whatever was written.
type Sink interface {
	io.Writer
	Commit(ctx context.Context) error
	Abort() error
}

// Store opens sources and sinks on the local filesystem or on S3.
// The S3 client is only set up the first time an S3 location is used.
type Store struct {
	cfg config.S3
	log logger.Logger

	getObject func(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	putObject func(ctx context.Context, bucket, key string, body io.Reader) error
}

func NewStore(cfg config.S3, log logger.Logger) *Store {
	return &Store{cfg: cfg, log: log}
}

func (s *Store) connect(ctx context.Context) error {
	if s.getObject != nil && s.putObject != nil {
		return nil
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if s.cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(s.cfg.Region))
	}
	if s.cfg.AccessKeyID != "" {
		provider := credentials.NewStaticCredentialsProvider(s.cfg.AccessKeyID, s.cfg.SecretAccessKey, "")
		opts = append(opts, awsconfig.WithCredentialsProvider(provider))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("loading AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
		}
		o.UsePathStyle = s.cfg.PathStyle
	})
	uploader := transfermanager.New(client)

	s.getObject = func(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
		out, err := client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, err
		}
		return out.Body, nil
	}
	s.putObject = func(ctx context.Context, bucket, key string, body io.Reader) error {
		_, err := uploader.UploadObject(ctx, &transfermanager.UploadObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   body,
		})
		return err
	}

	return nil
}

// Open returns a seekable reader over the whole source. S3 objects are
// downloaded into memory first.
func (s *Store) Open(ctx context.Context, loc Location) (io.ReadSeekCloser, error) {
	if !loc.IsS3() {
		f, err := os.Open(loc.Path)
		if err != nil {
			return nil, err
		}
		return f, nil
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	body, err := s.getObject(ctx, loc.Bucket, loc.Key)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", loc, err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", loc, err)
	}
	s.log.Infof("downloaded %s (%d bytes)", loc, len(data))

	return byteReadCloser{Reader: bytes.NewReader(data)}, nil
}

// Create prepares a sink for loc. Local output goes to a temporary file in
// the same directory which replaces loc.Path on Commit, so an existing file
// is left untouched until then. S3 objects are buffered and uploaded on Commit.
func (s *Store) Create(ctx context.Context, loc Location) (Sink, error) {
	if !loc.IsS3() {
		dir, name := filepath.Split(loc.Path)
		if dir == "" {
			dir = "."
		}
		f, err := os.CreateTemp(dir, "."+name+".*.tmp")
		if err != nil {
			return nil, err
		}
		return &fileSink{f: f, path: loc.Path}, nil
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	return &objectSink{store: s, loc: loc}, nil
}

type byteReadCloser struct {
	*bytes.Reader
}

func (b byteReadCloser) Close() error {
	return nil
}

type fileSink struct {
	f    *os.File
	path string
}

func (fs *fileSink) Write(p []byte) (int, error) {
	return fs.f.Write(p)
}

func (fs *fileSink) Commit(context.Context) error {
	if err := fs.f.Close(); err != nil {
		os.Remove(fs.f.Name())
		return err
	}
	// CreateTemp uses 0600
	if err := os.Chmod(fs.f.Name(), 0644); err != nil {
		os.Remove(fs.f.Name())
		return err
	}
	if err := os.Rename(fs.f.Name(), fs.path); err != nil {
		os.Remove(fs.f.Name())
		return err
	}
	return nil
}

func (fs *fileSink) Abort() error {
	return errors.Join(fs.f.Close(), os.Remove(fs.f.Name()))
}

type objectSink struct {
	store *Store
	loc   Location
	buf   bytes.Buffer
}

func (o *objectSink) Write(p []byte) (int, error) {
	return o.buf.Write(p)
}

func (o *objectSink) Commit(ctx context.Context) error {
	size := o.buf.Len()
	if err := o.store.putObject(ctx, o.loc.Bucket, o.loc.Key, &o.buf); err != nil {
		return fmt.Errorf("uploading %s: %w", o.loc, err)
	}
	o.store.log.Infof("uploaded %s (%d bytes)", o.loc, size)
	return nil
}

func (o *objectSink) Abort() error {
	o.buf.Reset()
	return nil
}
