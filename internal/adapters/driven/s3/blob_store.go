package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore implements driven.BlobStore over an S3 bucket.
type BlobStore struct {
	client *s3.Client
	bucket string
}

// NewBlobStore creates an S3-backed blob store for the given bucket.
func NewBlobStore(ctx context.Context, bucket, region string) (*BlobStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &BlobStore{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

// NewBlobStoreWithClient creates a blob store over an existing client.
func NewBlobStoreWithClient(client *s3.Client, bucket string) *BlobStore {
	return &BlobStore{client: client, bucket: bucket}
}

// ListObjects returns all object keys with the given suffix, paging
// through the full bucket listing.
func (b *BlobStore) ListObjects(ctx context.Context, suffix string) ([]string, error) {
	suffix = strings.ToLower(suffix)

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list bucket %s: %w", b.bucket, err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			if strings.HasSuffix(strings.ToLower(*obj.Key), suffix) {
				keys = append(keys, *obj.Key)
			}
		}
	}
	return keys, nil
}

// Download fetches the full content of one object.
func (b *BlobStore) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	return data, nil
}
