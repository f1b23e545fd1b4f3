package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type stubS3 struct {
	bucket string
	key    string
	body   string
	err    error
}

func (s *stubS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	s.bucket = aws.ToString(params.Bucket)
	s.key = aws.ToString(params.Key)
	if s.err != nil {
		return nil, s.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(s.body))}, nil
}

func TestFetchLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcripts.json")
	if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	rc, err := New().Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `[]` {
		t.Errorf("unexpected content %q", data)
	}
}

func TestFetchMissingFile(t *testing.T) {
	if _, err := New().Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFetchS3(t *testing.T) {
	stub := &stubS3{body: `[{"episode_id":"e1"}]`}
	f := NewWithS3(stub)

	rc, err := f.Fetch(context.Background(), "s3://podcasts/transcripts.json")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	defer rc.Close()

	if stub.bucket != "podcasts" || stub.key != "transcripts.json" {
		t.Errorf("unexpected object coordinates %q/%q", stub.bucket, stub.key)
	}
	data, _ := io.ReadAll(rc)
	if string(data) != stub.body {
		t.Errorf("unexpected content %q", data)
	}
}

func TestFetchInvalidS3URI(t *testing.T) {
	f := NewWithS3(&stubS3{})
	if _, err := f.Fetch(context.Background(), "s3://bucket-without-key"); err == nil {
		t.Fatalf("expected error for s3 URI without key")
	}
}

func TestSplitS3URI(t *testing.T) {
	cases := []struct {
		in     string
		bucket string
		key    string
		ok     bool
	}{
		{"s3://b/k.json", "b", "k.json", true},
		{"s3://b/path/to/k.json", "b", "path/to/k.json", true},
		{"s3://b", "", "", false},
		{"s3:///k.json", "", "", false},
		{"transcripts.json", "", "", false},
	}
	for _, tc := range cases {
		bucket, key, ok := SplitS3URI(tc.in)
		if bucket != tc.bucket || key != tc.key || ok != tc.ok {
			t.Errorf("SplitS3URI(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.in, bucket, key, ok, tc.bucket, tc.key, tc.ok)
		}
	}
}
