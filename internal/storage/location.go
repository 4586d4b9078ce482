package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const s3Scheme = "s3://"

// Location is either a local path or an S3 object.
type Location struct {
	Path string

	Bucket string
	Key    string
}

// ParseLocation accepts "s3://bucket/key" or a local path.
func ParseLocation(s string) (Location, error) {
	if !strings.HasPrefix(s, s3Scheme) {
		if s == "" {
			return Location{}, fmt.Errorf("empty location")
		}
		return Location{Path: s}, nil
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(s, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return Location{}, fmt.Errorf("invalid S3 location %q, expected s3://bucket/key", s)
	}
	return Location{Bucket: bucket, Key: key}, nil
}

func (l Location) IsS3() bool {
	return l.Bucket != ""
}

func (l Location) String() string {
	if l.IsS3() {
		return s3Scheme + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// SameAs reports whether l and other name the same file or object. Local
// paths are compared after cleaning and, when both exist, by file identity.
func (l Location) SameAs(other Location) bool {
	if l.IsS3() || other.IsS3() {
		return l.Bucket == other.Bucket && l.Key == other.Key
	}

	a, errA := filepath.Abs(l.Path)
	b, errB := filepath.Abs(other.Path)
	if errA == nil && errB == nil && a == b {
		return true
	}

	infoA, errA := os.Stat(l.Path)
	infoB, errB := os.Stat(other.Path)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}
