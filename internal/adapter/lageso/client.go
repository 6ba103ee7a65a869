package lageso

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/couchcryptid/berlin-dashboard/internal/domain"
)

const (
	// DefaultURL is the LAGeSo per-district case table.
	DefaultURL = "https://www.berlin.de/lageso/_assets/gesundheit/publikationen/corona/meldedatum_bezirk.csv"

	userAgent    = "berlin-dashboard/1.0 (+https://github.com/couchcryptid/berlin-dashboard)"
	maxBodyBytes = 32 << 20
	delimiter    = ';'
)

var (
	// ErrEmptyFeed is returned when the feed has a header but no data rows.
	ErrEmptyFeed = errors.New("feed has no data rows")

	// ErrBodyTooLarge is returned when the feed exceeds the size limit.
	ErrBodyTooLarge = errors.New("feed body exceeds size limit")

	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// Client fetches the per-district case table over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed client with the given per-request timeout.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Source returns the feed URL.
func (c *Client) Source() string { return c.url }

// Fetch performs one GET of the feed and decodes it. Retries are the caller's concern.
func (c *Client) Fetch(ctx context.Context) (domain.RawTable, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.RawTable{}, fmt.Errorf("feed error: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	table, err := DecodeTable(resp.Body)
	if err != nil {
		return domain.RawTable{}, err
	}
	c.logger.Debug("feed fetched", "url", c.url, "columns", len(table.Header), "rows", len(table.Rows))
	return table, nil
}

// DecodeTable reads a semicolon-delimited feed. A UTF-8 BOM is stripped and
// payloads that are not valid UTF-8 are read as Windows-1252.
func DecodeTable(r io.Reader) (domain.RawTable, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read feed: %w", err)
	}
	if len(body) > maxBodyBytes {
		return domain.RawTable{}, ErrBodyTooLarge
	}

	body = bytes.TrimPrefix(body, utf8BOM)
	if !utf8.Valid(body) {
		body, err = charmap.Windows1252.NewDecoder().Bytes(body)
		if err != nil {
			return domain.RawTable{}, fmt.Errorf("decode windows-1252: %w", err)
		}
	}

	cr := csv.NewReader(bytes.NewReader(body))
	cr.Comma = delimiter
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.RawTable{}, errors.New("feed is empty")
	}
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 {
		return domain.RawTable{}, fmt.Errorf("header has %d column(s): expected %q-delimited table", len(header), delimiter)
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return domain.RawTable{}, ErrEmptyFeed
	}
	return domain.RawTable{Header: header, Rows: rows}, nil
}

// FileSource reads the feed from a local file, e.g. a saved copy for offline use.
type FileSource struct {
	Path string
}

// Source returns the file path.
func (f FileSource) Source() string { return f.Path }

// Fetch reads and decodes the file.
func (f FileSource) Fetch(ctx context.Context) (domain.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawTable{}, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return domain.RawTable{}, fmt.Errorf("open feed file: %w", err)
	}
	defer file.Close()
	return DecodeTable(file)
}
