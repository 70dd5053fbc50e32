package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/newsclient/internal/client/repositories/metadata"
)

// MetadataBackend is the durable backend over the local SQLite metadata table.
type MetadataBackend struct {
	repo metadata.Repository
}

func NewMetadataBackend(repo metadata.Repository) *MetadataBackend {
	return &MetadataBackend{repo: repo}
}

func (b *MetadataBackend) Name() string { return "sqlite" }

func (b *MetadataBackend) Kind() Kind { return KindDurable }

func (b *MetadataBackend) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := b.repo.Get(ctx, key)
	if errors.Is(err, metadata.ErrNotFound) {
		return nil, ErrNotFound
	}
	return v, err
}

func (b *MetadataBackend) Set(ctx context.Context, key string, value []byte) error {
	return b.repo.Set(ctx, key, value)
}

func (b *MetadataBackend) Delete(ctx context.Context, keys ...string) error {
	return b.repo.Delete(ctx, keys...)
}

func (b *MetadataBackend) Clear(ctx context.Context) error {
	return b.repo.Clear(ctx)
}
