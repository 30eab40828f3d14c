package loader

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"vizboard/domain/table"
	apperrors "vizboard/internal/errors"
)

// FetchURL downloads a remote source and parses it. Pass FormatUnknown
// to detect the format from the URL path and the response content type.
// The returned name is a display name derived from the URL.
func (l *Loader) FetchURL(ctx context.Context, rawURL string, format Format) (*table.Dataset, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", apperrors.LoadError(rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, "", apperrors.LoadError(rawURL, fmt.Errorf("only http and https urls are supported"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", apperrors.LoadError(rawURL, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", apperrors.LoadError(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", apperrors.LoadError(rawURL, fmt.Errorf("fetch returned status %d", resp.StatusCode))
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		name = u.Host
	}

	if format == FormatUnknown {
		format = DetectFormat(name, resp.Header.Get("Content-Type"))
	}
	if format == FormatUnknown {
		return nil, "", apperrors.LoadError(rawURL, fmt.Errorf("cannot determine format from url or content type"))
	}

	ds, err := l.LoadReader(resp.Body, format, rawURL)
	if err != nil {
		return nil, "", err
	}
	return ds, name, nil
}
