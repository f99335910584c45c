// Package nowsecure provides a client for the NowSecure Platform REST API:
// submitting app-store binaries for assessment and downloading finished
// assessment reports.
package nowsecure

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// Default API hosts. The lab host serves the assessment submission API, the
// report host serves rendered assessment artifacts.
const (
	DefaultLabBaseURL    = "https://lab-api.nowsecure.com"
	DefaultReportBaseURL = "https://api.nowsecure.com"
)

// Config holds the NowSecure API credentials and endpoints.
type Config struct {
	// APIToken is the platform bearer token.
	APIToken string
	// GroupID is the platform group assessments are submitted under.
	GroupID string
	// LabBaseURL overrides the submission API host when non-empty.
	LabBaseURL string
	// ReportBaseURL overrides the report API host when non-empty.
	ReportBaseURL string
}

// Client talks to the NowSecure Platform API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a NowSecure API client. The http.Client may be nil, in
// which case http.DefaultClient semantics apply with no request timeout;
// callers bound requests through the context instead.
func NewClient(log *slog.Logger, cfg Config, httpClient *http.Client) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, errors.New("nowsecure api token is required")
	}
	if strings.TrimSpace(cfg.GroupID) == "" {
		return nil, errors.New("nowsecure group id is required")
	}
	if cfg.LabBaseURL == "" {
		cfg.LabBaseURL = DefaultLabBaseURL
	}
	if cfg.ReportBaseURL == "" {
		cfg.ReportBaseURL = DefaultReportBaseURL
	}
	cfg.LabBaseURL = strings.TrimRight(cfg.LabBaseURL, "/")
	cfg.ReportBaseURL = strings.TrimRight(cfg.ReportBaseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     log.With(slog.String("component", "nowsecure")),
	}, nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
}
