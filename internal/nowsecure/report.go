package nowsecure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// reportQuery selects the rendered report variant: confirmed findings only,
// no screenshots, and the reproduction/impact/remediation sections stripped.
const reportQuery = "status=detected&screenshots=false&finding.stepsToReproduce=false" +
	"&finding.businessImpact=false&finding.remediationResources=false" +
	"&evidenceFormats[]=inline"

// ReportURL returns the download URL for the PDF report of the given
// assessment.
func (c *Client) ReportURL(assessmentID string) string {
	return fmt.Sprintf("%s/report/assessment/ref/%s.pdf?%s", c.cfg.ReportBaseURL, assessmentID, reportQuery)
}

// FetchReport downloads the PDF report for the given assessment. Unlike
// Submit, any failure here is a hard error; the caller decides how to contain
// it.
func (c *Client) FetchReport(ctx context.Context, assessmentID string) ([]byte, error) {
	endpoint := c.ReportURL(assessmentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build report request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download report: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download report: HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read report body: %w", err)
	}
	c.logger.Info("report downloaded",
		slog.String("assessment_id", assessmentID),
		slog.Int("bytes", len(body)))
	return body, nil
}
