package imageurl

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// asset refs look like image-<assetId>-<width>x<height>-<format>
var assetRef = regexp.MustCompile(`^image-([A-Za-z0-9]+)-(\d+x\d+)-([a-z0-9]+)$`)

// CDN builds image URLs for the hosted content backend's asset CDN.
type CDN struct {
	BaseURL   string
	ProjectID string
	Dataset   string
}

func NewCDN(baseURL, projectID, dataset string) *CDN {
	return &CDN{BaseURL: strings.TrimRight(baseURL, "/"), ProjectID: projectID, Dataset: dataset}
}

func (c *CDN) URL(_ context.Context, ref string) (string, error) {
	m := assetRef.FindStringSubmatch(strings.TrimSpace(ref))
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return fmt.Sprintf("%s/images/%s/%s/%s-%s.%s", c.BaseURL, c.ProjectID, c.Dataset, m[1], m[2], m[3]), nil
}

func (c *CDN) String() string { return fmt.Sprintf("cdn(%s/%s)", c.ProjectID, c.Dataset) }
