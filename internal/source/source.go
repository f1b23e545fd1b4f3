// Package source resolves transcript corpus locations. Deployed instances
// read their corpus from an object-storage bucket at startup; everything
// else is a local file.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the slice of the S3 client used here, kept narrow so tests can
// stub it.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Fetcher opens transcript corpora from s3://bucket/key URIs or local paths.
type Fetcher struct {
	s3 S3API
}

// New returns a fetcher that builds its S3 client on first use from the
// ambient AWS configuration.
func New() *Fetcher { return &Fetcher{} }

// NewWithS3 returns a fetcher with an injected S3 client.
func NewWithS3(api S3API) *Fetcher { return &Fetcher{s3: api} }

// Fetch opens the corpus at location. The caller closes the returned reader.
func (f *Fetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	if strings.HasPrefix(location, "s3://") {
		bucket, key, ok := SplitS3URI(location)
		if !ok {
			return nil, fmt.Errorf("invalid s3 location %q: want s3://bucket/key", location)
		}
		return f.fetchS3(ctx, bucket, key)
	}

	file, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("opening transcripts: %w", err)
	}
	return file, nil
}

// SplitS3URI parses s3://bucket/key into its parts.
func SplitS3URI(location string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(location, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

func (f *Fetcher) fetchS3(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	api := f.s3
	if api == nil {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}
		api = s3.NewFromConfig(awsCfg)
	}

	out, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching s3://%s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}
