package imageurl

import (
	"context"
	"errors"
)

var ErrInvalidRef = errors.New("invalid image reference")

// Resolver turns an opaque image reference into a displayable URL.
type Resolver interface {
	URL(ctx context.Context, ref string) (string, error)
}
