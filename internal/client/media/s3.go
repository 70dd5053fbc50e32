package media

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/newsclient/internal/logging"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// DefaultPresignExpiry is used when S3Options.Expires is zero.
const DefaultPresignExpiry = 15 * time.Minute

// S3Options configures access to a bucket holding page images.
// Empty credentials fall back to the default AWS credential chain.
type S3Options struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Expires   time.Duration
}

// ParseS3URL splits "s3://bucket/prefix" into its parts.
func ParseS3URL(s string) (bucket, prefix string, ok bool) {
	u, err := url.Parse(s)
	if err != nil || !strings.EqualFold(u.Scheme, "s3") || u.Host == "" {
		return "", "", false
	}
	return u.Host, strings.Trim(u.Path, "/"), true
}

// S3Resolver presigns GET requests for object keys under a bucket prefix.
type S3Resolver struct {
	opts    S3Options
	presign *s3.PresignClient
	log     logging.Logger
}

func NewS3Resolver(ctx context.Context, opts S3Options, log logging.Logger) (*S3Resolver, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if opts.Expires <= 0 {
		opts.Expires = DefaultPresignExpiry
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Resolver{opts: opts, presign: newS3PresignClient(client), log: log}, nil
}

// Key returns the object key for ref.
func (r *S3Resolver) Key(ref string) string {
	return path.Join(r.opts.Prefix, strings.TrimPrefix(ref, "/"))
}

// Resolve presigns ref. Empty refs and presign failures yield the
// placeholder; absolute URLs pass through.
func (r *S3Resolver) Resolve(ctx context.Context, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return PlaceholderPage
	}
	if IsAbsolute(ref) {
		return ref
	}

	bucket := r.opts.Bucket
	key := r.Key(ref)

	req, err := presignGetObject(r.presign, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(r.opts.Expires))
	if err != nil {
		r.log.Warn(ctx, "presign failed", "key", key, "error", err)
		return PlaceholderPage
	}
	return req.URL
}
