package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"kildeliste/config"
)

// ObjectStore lädt exportierte Dokumente in einen S3-kompatiblen Bucket.
type ObjectStore struct {
	Client  *s3.Client
	Bucket  string
	BaseURL string
	Prefix  string
	nowFunc func() time.Time
}

// NewS3Client erstellt einen S3-Client für den konfigurierten Endpunkt.
func NewS3Client(cfg *config.Config) (*s3.Client, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.ExportS3URL,
				SigningRegion:     cfg.ExportS3Region,
				HostnameImmutable: true,
			}, nil
		},
	)
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.ExportS3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.ExportS3Key, cfg.ExportS3Secret, "")),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

// NewObjectStore erstellt den Upload-Speicher für Exporte.
func NewObjectStore(cfg *config.Config) (*ObjectStore, error) {
	client, err := NewS3Client(cfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return &ObjectStore{
		Client:  client,
		Bucket:  cfg.ExportS3Bucket,
		BaseURL: cfg.ExportS3URL,
		Prefix:  cfg.ExportS3Prefix,
		nowFunc: time.Now,
	}, nil
}

// ObjectKey baut den Schlüssel "{prefix}/article-{id}/{timestamp}.html".
func ObjectKey(prefix string, articleID uint, t time.Time) string {
	name := fmt.Sprintf("article-%d/%s.html", articleID, t.UTC().Format("20060102T150405Z"))
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// Upload lädt das gerenderte HTML hoch und gibt den Link zurück.
func (s *ObjectStore) Upload(ctx context.Context, articleID uint, data []byte) (string, error) {
	now := time.Now
	if s.nowFunc != nil {
		now = s.nowFunc
	}
	key := ObjectKey(s.Prefix, articleID, now())
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.BaseURL, "/"), s.Bucket, key), nil
}
