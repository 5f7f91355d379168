// Package bucket lists and downloads Argoverse 2 objects from S3.
package bucket

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/rotblauer/av2kml/params"
)

type Bucket struct {
	name string
	svc  s3iface.S3API
	dl   s3manageriface.DownloaderAPI

	listTimeout     time.Duration
	downloadTimeout time.Duration
}

// New connects anonymously; the dataset bucket is public.
func New(cfg *params.BucketConfig) (*Bucket, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.AnonymousCredentials,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 session: %w", err)
	}
	svc := s3.New(sess)
	b := NewWithClients(cfg.Name, svc, s3manager.NewDownloaderWithClient(svc))
	b.listTimeout = cfg.ListTimeout
	b.downloadTimeout = cfg.DownloadTimeout
	return b, nil
}

// NewWithClients wraps existing clients, without timeouts.
func NewWithClients(name string, svc s3iface.S3API, dl s3manageriface.DownloaderAPI) *Bucket {
	return &Bucket{name: name, svc: svc, dl: dl}
}

func (b *Bucket) Name() string {
	return b.name
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// ListPrefixes lists the immediate "directories" under prefix, returning
// their names without prefix or trailing slash.
func (b *Bucket) ListPrefixes(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := withTimeout(ctx, b.listTimeout)
	defer cancel()

	var out []string
	err := b.svc.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(b.name),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.StringValue(cp.Prefix), prefix), "/")
			if name != "" {
				out = append(out, name)
			}
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("list s3://%s/%s: %w", b.name, prefix, err)
	}
	return out, nil
}

// ListKeys lists the full keys of objects directly under prefix.
func (b *Bucket) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := withTimeout(ctx, b.listTimeout)
	defer cancel()

	var out []string
	err := b.svc.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(b.name),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			out = append(out, aws.StringValue(obj.Key))
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("list s3://%s/%s: %w", b.name, prefix, err)
	}
	return out, nil
}

// Download fetches key into localPath unless the file already exists.
// The object is written to a temporary file in the same directory first.
func (b *Bucket) Download(ctx context.Context, key, localPath string) (skipped bool, n int64, err error) {
	if _, err := os.Stat(localPath); err == nil {
		return true, 0, nil
	}
	dir := filepath.Dir(localPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, 0, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(localPath)+"-*")
	if err != nil {
		return false, 0, err
	}
	defer os.Remove(tmp.Name())

	ctx, cancel := withTimeout(ctx, b.downloadTimeout)
	defer cancel()
	n, err = b.dl.DownloadWithContext(ctx, tmp, &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return false, 0, fmt.Errorf("download s3://%s/%s: %w", b.name, key, err)
	}
	if err := os.Rename(tmp.Name(), localPath); err != nil {
		return false, 0, err
	}
	return false, n, nil
}
