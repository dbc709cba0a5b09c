package imageurl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 hands out short-lived presigned GET URLs for images kept in a bucket.
type S3 struct {
	Client *s3.PresignClient
	Bucket string
	Prefix string
	Expiry time.Duration
}

type S3Config struct {
	Region string
	Bucket string
	Prefix string
	Expiry time.Duration
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	expiry := cfg.Expiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &S3{
		Client: s3.NewPresignClient(s3.NewFromConfig(awsCfg)),
		Bucket: cfg.Bucket,
		Prefix: cfg.Prefix,
		Expiry: expiry,
	}, nil
}

// Key maps a reference to the object key under the configured prefix.
func (s *S3) Key(ref string) string {
	key := strings.TrimLeft(strings.TrimSpace(ref), "/")
	if s.Prefix != "" && !strings.HasPrefix(key, strings.Trim(s.Prefix, "/")+"/") {
		key = strings.Trim(s.Prefix, "/") + "/" + key
	}
	return key
}

func (s *S3) URL(ctx context.Context, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidRef)
	}
	key := s.Key(ref)
	req, err := s.Client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.Expiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *S3) String() string { return fmt.Sprintf("s3(%s/%s)", s.Bucket, s.Prefix) }
