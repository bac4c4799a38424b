package source

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pkg/errors"
)

// maxBodySize caps remote downloads; profiles and photos are small.
const maxBodySize = 20 << 20

// IsURL reports whether input is an http or https URL.
func IsURL(input string) (ok bool) {
	parsedURL, err := url.Parse(input)
	ok = err == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https")
	return ok
}

// Fetch retrieves content from a file path or an http(s) URL.
func Fetch(ctx context.Context, input string) (content []byte, err error) {
	if IsURL(input) {
		content, err = fetchFromURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch from URL: %s", input)
			return content, err
		}
		return content, err
	}

	content, err = fetchFromFile(input)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch from file: %s", input)
		return content, err
	}

	return content, err
}

// fetchFromFile reads content from a regular file.
func fetchFromFile(path string) (content []byte, err error) {
	var info os.FileInfo
	info, err = os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("file not found: %s", path)
			return content, err
		}
		err = errors.Wrapf(err, "failed to stat file: %s", path)
		return content, err
	}

	if info.IsDir() {
		err = errors.Errorf("is a directory: %s", path)
		return content, err
	}

	content, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return content, err
	}

	if len(content) == 0 {
		err = errors.New("file is empty")
		return content, err
	}

	return content, err
}

// fetchFromURL downloads content over HTTP.
func fetchFromURL(ctx context.Context, urlStr string) (content []byte, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return content, err
	}

	req.Header.Set("User-Agent", "ats-cv/1.0")

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return content, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return content, err
	}

	content, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return content, err
	}

	if len(content) == 0 {
		err = errors.New("fetched content is empty")
		return content, err
	}

	return content, err
}
