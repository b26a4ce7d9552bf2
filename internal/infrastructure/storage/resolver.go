package storage

import (
	"context"
	"errors"
	"io"
)

// Opener opens a readable source by location
type Opener interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

// ErrObjectStorageDisabled is returned for s3:// locations when no object storage is configured
var ErrObjectStorageDisabled = errors.New("object storage is not configured")

// SourceResolver routes s3:// locations to object storage and everything else to the local filesystem
type SourceResolver struct {
	local  Opener
	object Opener
}

// NewSourceResolver creates a SourceResolver. object may be nil.
func NewSourceResolver(local, object Opener) *SourceResolver {
	if local == nil {
		local = NewLocalFileSource()
	}
	return &SourceResolver{local: local, object: object}
}

// Open opens location with the matching backend
func (r *SourceResolver) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if IsS3Location(location) {
		if r.object == nil {
			return nil, ErrObjectStorageDisabled
		}
		return r.object.Open(ctx, location)
	}
	return r.local.Open(ctx, location)
}
