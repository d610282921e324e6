package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type BlobStore struct {
	mock.Mock
}

func (m *BlobStore) Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}

func (m *BlobStore) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *BlobStore) URL(path string) string {
	args := m.Called(path)
	return args.String(0)
}
