package memstore

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ldpworks/ldprepo/services"
)

// S3BinaryStoreConfig configures an S3BinaryStore.
type S3BinaryStoreConfig struct {
	Bucket      string
	KeyPrefix   string
	Region      string
	AccessID    string
	AccessKey   string
}

// S3BinaryStore is a services.BinaryService backed by an S3 bucket, the
// natural home for an S3 SDK in a byte-stream storage concern — the same
// credential/region setup the ambient stack's own object-storage driver uses,
// minus its SQS notification listener, which has no analogue here.
type S3BinaryStore struct {
	client    *s3.Client
	uploader  *manager.Uploader
	downloader *manager.Downloader
	bucket    string
	keyPrefix string
}

// NewS3BinaryStore constructs an S3BinaryStore from cfg.
func NewS3BinaryStore(ctx context.Context, cfg S3BinaryStoreConfig) (*S3BinaryStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("memstore: S3BinaryStore requires a bucket")
	}
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessID, cfg.AccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg)
	return &S3BinaryStore{
		client:     client,
		uploader:   manager.NewUploader(client),
		downloader: manager.NewDownloader(client),
		bucket:     cfg.Bucket,
		keyPrefix:  cfg.KeyPrefix,
	}, nil
}

var _ services.BinaryService = (*S3BinaryStore)(nil)

func (s *S3BinaryStore) key(iri string) string {
	return s.keyPrefix + iri
}

// Get implements services.BinaryService.
func (s *S3BinaryStore) Get(ctx context.Context, iri string) (services.Binary, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(iri)),
	})
	if err != nil {
		return services.Binary{}, err
	}
	b := services.Binary{}
	if out.ContentType != nil {
		b.MIMEType = *out.ContentType
	}
	if out.ContentLength != nil {
		b.Size = *out.ContentLength
	}
	return b, nil
}

// GetContent implements services.BinaryService.
func (s *S3BinaryStore) GetContent(ctx context.Context, iri string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(iri)),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// GetRange implements services.BinaryService, issuing a ranged GetObject call.
func (s *S3BinaryStore) GetRange(ctx context.Context, iri string, start, end int64) (io.ReadCloser, error) {
	rangeHeader := fmt.Sprintf("bytes=%d-%d", start, end)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(iri)),
		Range:  aws.String(rangeHeader),
	})
	if err != nil {
		return nil, err
	}
	return out.Body, nil
}

// SetContent implements services.BinaryService using the multipart Uploader.
func (s *S3BinaryStore) SetContent(ctx context.Context, iri string, mimeType string, r io.Reader) (int64, error) {
	counting := &countingReader{r: r}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(iri)),
		Body:        counting,
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return 0, err
	}
	return counting.n, nil
}

// PurgeContent implements services.BinaryService.
func (s *S3BinaryStore) PurgeContent(ctx context.Context, iri string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(iri)),
	})
	return err
}

// GenerateIdentifier implements services.BinaryService.
func (s *S3BinaryStore) GenerateIdentifier() string {
	return uuid.NewString()
}

// countingReader wraps an io.Reader to track bytes read, since the uploader
// doesn't report the final object size back to the caller.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
