package nowsecure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// SubmissionResult is the outcome of an assessment submission. When OK is
// true, Status carries the platform task status; otherwise Status carries a
// human-readable failure description suitable for showing to the requesting
// user.
type SubmissionResult struct {
	OK     bool
	Status string
}

type submitAccepted struct {
	TaskStatus string `json:"task_status"`
}

type submitRejected struct {
	Message string `json:"message"`
}

// Submit asks the platform to pull the app identified by bundleID from its
// app store and run an assessment under the configured group. platform must
// be "ios" or "android". All failures are folded into the result rather than
// returned as errors; the caller relays the status text verbatim.
func (c *Client) Submit(ctx context.Context, platform, bundleID string) SubmissionResult {
	if strings.TrimSpace(platform) == "" || strings.TrimSpace(bundleID) == "" {
		return SubmissionResult{OK: false, Status: "Both platform and bundle_id parameters are required"}
	}
	if platform != "ios" && platform != "android" {
		return SubmissionResult{OK: false, Status: "Platform must be either 'ios' or 'android'"}
	}

	endpoint := fmt.Sprintf(
		"%s/app/%s/%s/assessment/?appstore_download=*&group=%s",
		c.cfg.LabBaseURL, platform, bundleID, c.cfg.GroupID,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return SubmissionResult{OK: false, Status: "Unexpected error: " + err.Error()}
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SubmissionResult{OK: false, Status: "Network error: " + err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SubmissionResult{OK: false, Status: "Network error: " + err.Error()}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var accepted submitAccepted
		if err := json.Unmarshal(body, &accepted); err != nil {
			return SubmissionResult{OK: false, Status: "Invalid JSON response: " + err.Error()}
		}
		status := accepted.TaskStatus
		if status == "" {
			status = "unknown"
		}
		c.logger.Info("assessment submitted",
			slog.String("platform", platform),
			slog.String("bundle_id", bundleID),
			slog.String("status", status))
		return SubmissionResult{OK: true, Status: status}
	}

	status := fmt.Sprintf("HTTP %d error", resp.StatusCode)
	var rejected submitRejected
	if err := json.Unmarshal(body, &rejected); err == nil && rejected.Message != "" {
		status = rejected.Message
	}
	c.logger.Warn("assessment submission rejected",
		slog.String("platform", platform),
		slog.String("bundle_id", bundleID),
		slog.String("status", status))
	return SubmissionResult{OK: false, Status: status}
}
