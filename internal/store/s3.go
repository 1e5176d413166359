package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/mrchypark/pocketbase-go-skill/internal/common"
	"github.com/mrchypark/pocketbase-go-skill/internal/models"
)

const s3Scheme = "s3://"

// S3Config holds the connection settings of an S3-compatible object store.
// Endpoint switches to path-style addressing for MinIO and similar servers.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// S3Store keeps documents as objects in a bucket.
type S3Store struct {
	api objectAPI
}

// NewS3Store builds a client from cfg. Empty credentials fall back to the
// default AWS credential chain.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Store{api: api}, nil
}

// ParseS3Location splits s3://bucket/key.
func ParseS3Location(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%q is not an s3 location: %w", location, common.ErrInvalidInput)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("%q must look like s3://bucket/key: %w", location, common.ErrInvalidInput)
	}
	return bucket, key, nil
}

func (s *S3Store) Load(ctx context.Context, location string) (models.Document, error) {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}

	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, fmt.Errorf("%s: %w", location, common.ErrSchemaNotFound)
		}
		return nil, fmt.Errorf("get %s: %w", location, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}

	doc, err := codecFor(key).Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return doc, nil
}

func (s *S3Store) Save(ctx context.Context, location string, doc models.Document) error {
	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return err
	}

	c := codecFor(key)
	data, err := c.Encode(doc)
	if err != nil {
		return err
	}

	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(c)),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", location, err)
	}
	return nil
}

func contentType(c codec) string {
	if _, ok := c.(yamlCodec); ok {
		return "application/yaml"
	}
	return "application/json"
}

// lazyS3 defers client construction until an s3:// location is used.
type lazyS3 struct {
	cfg   S3Config
	store *S3Store
}

func (l *lazyS3) get(ctx context.Context) (*S3Store, error) {
	if l.store == nil {
		s, err := NewS3Store(ctx, l.cfg)
		if err != nil {
			return nil, err
		}
		l.store = s
	}
	return l.store, nil
}

func (l *lazyS3) Load(ctx context.Context, location string) (models.Document, error) {
	s, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, location)
}

func (l *lazyS3) Save(ctx context.Context, location string, doc models.Document) error {
	s, err := l.get(ctx)
	if err != nil {
		return err
	}
	return s.Save(ctx, location, doc)
}
