// Package media turns image references from the API into URLs the client
// can fetch: plain references are joined to the media base URL and, when
// the media root is an S3 bucket, presigned.
package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/newsclient/internal/logging"
)

// PlaceholderPage is shown for pages without an image.
const PlaceholderPage = "/images/placeholder-page.png"

type Resolver interface {
	Resolve(ctx context.Context, ref string) string
}

// IsAbsolute reports whether ref already is a fetchable URL.
func IsAbsolute(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "data", "file":
		return true
	}
	return false
}

// BaseURLResolver joins relative references to a base URL.
type BaseURLResolver struct {
	base *url.URL
}

// NewBaseURLResolver parses base. An empty base leaves references as they are.
func NewBaseURLResolver(base string) (*BaseURLResolver, error) {
	if base == "" {
		return &BaseURLResolver{}, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse media base url: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &BaseURLResolver{base: u}, nil
}

func (r *BaseURLResolver) Resolve(_ context.Context, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = PlaceholderPage
	}
	if IsAbsolute(ref) || r.base == nil {
		return ref
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return r.base.ResolveReference(rel).String()
}

// NewResolver picks the resolver for base: S3Resolver for s3:// roots and
// BaseURLResolver otherwise.
func NewResolver(ctx context.Context, base string, opts S3Options, log logging.Logger) (Resolver, error) {
	if bucket, prefix, ok := ParseS3URL(base); ok {
		opts.Bucket = bucket
		opts.Prefix = prefix
		return NewS3Resolver(ctx, opts, log)
	}
	return NewBaseURLResolver(base)
}
