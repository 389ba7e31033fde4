// Package epc fetches Energy Performance Certificates from the Open Data
// Communities API and reconciles them into a per-property or per-postcode
// summary.
package epc

import (
	"context"
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/local-insights/internal/domain"
)

// searchPageSize bounds one postcode search; postcodes rarely exceed a few
// hundred certificates.
const searchPageSize = 5000

// Credentials are the accepted configuration shapes for EPC authentication.
// The upstream wants HTTP basic auth with a base64-encoded "email:key" pair;
// deployments have historically supplied that in three different forms.
type Credentials struct {
	AuthBasic string // already base64-encoded
	APIToken  string // raw "email:key"
	Email     string
	APIKey    string
}

// credentialShapes is the ordered strategy table: the first recognizer the
// configuration satisfies wins.
var credentialShapes = []func(Credentials) (string, bool){
	func(c Credentials) (string, bool) {
		return c.AuthBasic, c.AuthBasic != ""
	},
	func(c Credentials) (string, bool) {
		if strings.Contains(c.APIToken, ":") {
			return base64.StdEncoding.EncodeToString([]byte(c.APIToken)), true
		}
		return "", false
	},
	func(c Credentials) (string, bool) {
		if c.Email != "" && c.APIKey != "" {
			return base64.StdEncoding.EncodeToString([]byte(c.Email + ":" + c.APIKey)), true
		}
		return "", false
	},
}

// authorization returns the Authorization header value, or ok=false when no
// credential shape is satisfied.
func (c Credentials) authorization() (string, bool) {
	for _, shape := range credentialShapes {
		if encoded, ok := shape(c); ok {
			return "Basic " + encoded, true
		}
	}
	return "", false
}

// Client fetches and summarises EPC data.
type Client struct {
	creds      Credentials
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an EPC client. Without satisfiable credentials the
// client serves placeholder summaries.
func NewClient(baseURL string, creds Credentials, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		creds:      creds,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

// Summary fetches the postcode's certificates and reconciles them. With a
// house number it summarises that property; otherwise the whole postcode.
// Without credentials it returns the placeholder immediately.
func (c *Client) Summary(ctx context.Context, postcode, number string) (*domain.EPCSummary, error) {
	auth, ok := c.creds.authorization()
	if !ok {
		return &domain.EPCSummary{
			Mode:           domain.EPCModeProperty,
			Rating:         "C",
			AssessmentDate: "2019",
			Note:           "Demo placeholder (set EPC credentials for live).",
		}, nil
	}

	certs, err := c.search(ctx, auth, postcode)
	if err != nil {
		return nil, err
	}

	summary := domain.SummarizeEPC(certs, number)
	return &summary, nil
}

// search fetches the postcode's certificates as CSV and normalizes them.
func (c *Client) search(ctx context.Context, auth, postcode string) ([]domain.Certificate, error) {
	u := fmt.Sprintf("%s/api/v1/domestic/search?postcode=%s&size=%d",
		c.baseURL, url.QueryEscape(postcode), searchPageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("epc request: %w", err)
	}
	defer resp.Body.Close()

	// 204 means a valid postcode with no certificates.
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("epc api: status %d", resp.StatusCode)
	}

	return parseCertificates(resp.Body)
}

// parseCertificates reads a CSV payload with arbitrary column order and
// casing, resolving logical fields through the domain's header aliases.
func parseCertificates(r io.Reader) ([]domain.Certificate, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, h := range headers {
		headers[i] = domain.NormalizeEPCHeader(h)
	}

	var certs []domain.Certificate
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		fields := make(map[string]string, len(headers))
		for i, v := range row {
			if i < len(headers) {
				fields[headers[i]] = v
			}
		}
		if cert, ok := domain.CertificateFromRow(fields); ok {
			certs = append(certs, cert)
		}
	}
	return certs, nil
}
