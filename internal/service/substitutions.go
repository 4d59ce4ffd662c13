package service

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pageza/alchemorsel-v2/safety/internal/safety"
)

// ObjectGetter is the part of the S3 client used to fetch substitution tables.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LoadSubstitutionsFromS3 downloads and parses a substitution table object.
func LoadSubstitutionsFromS3(ctx context.Context, client ObjectGetter, bucket, key string) (*safety.SubstitutionTable, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", bucket, key, err)
	}
	return safety.ParseSubstitutionTable(data)
}

// LoadSubstitutionsFromFile parses a substitution table from disk.
func LoadSubstitutionsFromFile(path string) (*safety.SubstitutionTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read substitutions file: %w", err)
	}
	return safety.ParseSubstitutionTable(data)
}
