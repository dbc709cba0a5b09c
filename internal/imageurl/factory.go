package imageurl

import (
	"context"
	"fmt"

	"orderdesk.io/app/internal/config"
)

type FactoryResult struct {
	Driver   string
	Resolver Resolver
}

func FromConfig(ctx context.Context, cfg config.ImagesConfig, content config.ContentConfig) (FactoryResult, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "cdn"
	}

	switch driver {
	case "cdn":
		if content.ProjectID == "" {
			return FactoryResult{}, fmt.Errorf("IMAGE_DRIVER=cdn requires CONTENT_PROJECT_ID")
		}
		return FactoryResult{Driver: "cdn", Resolver: NewCDN(cfg.CDNBaseURL, content.ProjectID, content.Dataset)}, nil

	case "local":
		return FactoryResult{Driver: "local", Resolver: NewLocal(cfg.LocalURLPrefix)}, nil

	case "s3":
		if cfg.S3Region == "" || cfg.S3Bucket == "" {
			return FactoryResult{}, fmt.Errorf("S3 config missing: S3_REGION, S3_BUCKET required")
		}
		s, err := NewS3(ctx, S3Config{
			Region: cfg.S3Region,
			Bucket: cfg.S3Bucket,
			Prefix: cfg.S3Prefix,
			Expiry: cfg.S3URLExpiry,
		})
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "s3", Resolver: s}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown IMAGE_DRIVER: %s", driver)
	}
}
