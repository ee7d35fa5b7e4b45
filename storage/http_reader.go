package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-resty/resty/v2"

	"catalog-browser/models"
	"catalog-browser/utils"
)

// HTTPSource downloads a delimited file over HTTP(S).
type HTTPSource struct {
	url       string
	delimiter rune
	client    *resty.Client
	retry     *utils.RetryConfig
	logger    *utils.Logger
}

// NewHTTPSource returns a Source for a remote CSV or TSV file.
func NewHTTPSource(rawURL string, opts Options) *HTTPSource {
	opts = opts.withDefaults()
	return &HTTPSource{
		url:       rawURL,
		delimiter: delimiterFor(urlPath(rawURL), opts.Delimiter),
		client: resty.New().
			SetDebug(false).
			SetTimeout(opts.HTTPTimeout).
			SetHeader("Accept", "text/csv, text/tab-separated-values, text/plain, */*"),
		retry:  opts.Retry,
		logger: opts.Logger,
	}
}

// Identity issues a HEAD request and versions the file by ETag, Last-Modified
// or Content-Length, whichever the server sends first. A server that rejects
// HEAD yields an unversioned identity.
func (s *HTTPSource) Identity(ctx context.Context) (models.SourceIdentity, error) {
	id := models.SourceIdentity{URI: s.url}

	res, err := s.client.R().SetContext(ctx).Head(s.url)
	if err != nil {
		return id, fmt.Errorf("http: head %s: %w", s.url, err)
	}
	if res.IsError() {
		s.logger.Debug("[http] HEAD %s returned %d, source is unversioned", s.url, res.StatusCode())
		return id, nil
	}

	for _, h := range []string{"ETag", "Last-Modified", "Content-Length"} {
		if v := res.Header().Get(h); v != "" {
			id.Version = h + ":" + v
			break
		}
	}
	if lm := res.Header().Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			id.ModTime = t
		}
	}
	id.Size = res.RawResponse.ContentLength
	return id, nil
}

// Load downloads the whole file, retrying transport failures and error statuses.
func (s *HTTPSource) Load(ctx context.Context) (*models.RawTable, error) {
	var body []byte
	err := s.retry.Do(ctx, "http get "+s.url, func(ctx context.Context) error {
		res, err := handleError(s.client.R().SetContext(ctx).Get(s.url))
		if err != nil {
			return err
		}
		body = res.Body()
		return nil
	})
	if err != nil {
		return nil, err
	}

	table, err := ReadDelimited(bytes.NewReader(body), s.delimiter)
	if err != nil {
		return nil, fmt.Errorf("http: parse %s: %w", s.url, err)
	}
	return table, nil
}

// handleError turns a >399 response into an error; resty reports those as success.
func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		return res, fmt.Errorf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
	}
	return res, nil
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return path.Clean(strings.TrimSuffix(u.Path, "/"))
}
