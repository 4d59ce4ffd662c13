package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client     *s3.Client
	BucketName string
}

// NewS3Config initializes the S3 client for the substitutions bucket. AWS
// credentials come from the default provider chain.
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	if cfg.SubstitutionsBucket == "" {
		return nil, fmt.Errorf("substitutions bucket is not configured")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Config{
		Client:     s3.NewFromConfig(awsCfg),
		BucketName: cfg.SubstitutionsBucket,
	}, nil
}
