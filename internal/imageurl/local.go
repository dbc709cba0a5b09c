package imageurl

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// Local serves images uploaded to the local upload directory.
type Local struct {
	URLPrefix string
}

func NewLocal(urlPrefix string) *Local {
	return &Local{URLPrefix: urlPrefix}
}

func (l *Local) URL(_ context.Context, ref string) (string, error) {
	key := path.Base(strings.TrimSpace(ref))
	if key == "." || key == "/" || key == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return strings.TrimRight(l.URLPrefix, "/") + "/" + key, nil
}

func (l *Local) String() string { return fmt.Sprintf("local(%s)", l.URLPrefix) }
