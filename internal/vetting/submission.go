package vetting

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vetbotio/vetbot/internal/appstore"
	"github.com/vetbotio/vetbot/internal/auditlog"
	"github.com/vetbotio/vetbot/internal/channel"
	"github.com/vetbotio/vetbot/internal/nowsecure"
)

// StoreResolver resolves a raw store URL into an app descriptor.
type StoreResolver interface {
	Resolve(ctx context.Context, rawURL string) (appstore.Descriptor, error)
}

// AssessmentSubmitter submits a resolved app for assessment.
type AssessmentSubmitter interface {
	Submit(ctx context.Context, platform, bundleID string) nowsecure.SubmissionResult
}

// Submissions is the command pipeline: parse /appvetting invocations, resolve
// the store URL, submit the app, and format the reply.
type Submissions struct {
	logger    *slog.Logger
	resolver  StoreResolver
	submitter AssessmentSubmitter
	audit     auditlog.Recorder
}

// NewSubmissions wires the submission pipeline. audit may be nil to disable
// request auditing.
func NewSubmissions(log *slog.Logger, resolver StoreResolver, submitter AssessmentSubmitter, audit auditlog.Recorder) *Submissions {
	if log == nil {
		log = slog.Default()
	}
	return &Submissions{
		logger:    log.With(slog.String("component", "submissions")),
		resolver:  resolver,
		submitter: submitter,
		audit:     audit,
	}
}

const helpText = `
*Appvetting Command Help*

*Usage:*
• ` + "`/appvetting`" + ` - Show this help message
• ` + "`/appvetting new <app-store-url>`" + ` - Submit a new app for vetting

*Examples:*
• ` + "`/appvetting new https://apps.apple.com/us/app/rakuten-viber-messenger/id382617920`" + `
• ` + "`/appvetting new https://play.google.com/store/apps/details?id=com.sadadcompany.sadad&hl=en_IN&pli=1`" + `
`

// HandleCommand dispatches one slash-command invocation. Every branch
// terminates in a reply string; errors never escape this boundary.
func (s *Submissions) HandleCommand(ctx context.Context, cmd channel.Command) (string, error) {
	text := strings.TrimSpace(cmd.Text)
	if text == "" {
		return helpText, nil
	}

	parts := strings.Fields(text)
	subcommand := strings.ToLower(parts[0])

	switch subcommand {
	case "new":
		if len(parts) < 2 {
			return "❌ Missing URL parameter.\n\nUsage: `/appvetting new <app-store-url>`", nil
		}
		return s.submitNew(ctx, cmd, parts[1]), nil
	case "help":
		return helpText, nil
	default:
		return fmt.Sprintf("❌ Unknown command: `%s`\n\n%s", subcommand, helpText), nil
	}
}

func (s *Submissions) submitNew(ctx context.Context, cmd channel.Command, rawURL string) string {
	s.logger.Info("vetting request received",
		slog.String("user", cmd.UserName),
		slog.String("url", rawURL))

	desc, err := s.resolver.Resolve(ctx, rawURL)
	if err != nil {
		s.logger.Warn("resolve store url failed",
			slog.String("url", rawURL), slog.Any("error", err))
		return appstore.UserMessage(err)
	}

	s.recordAudit(cmd, rawURL)

	res := s.submitter.Submit(ctx, string(desc.Platform), desc.BundleID)
	if res.OK {
		return fmt.Sprintf("✅ %s app `%s` referred by %s submitted for assessment.\nStatus: %s",
			desc.Platform.Label(), desc.BundleID, desc.URL, res.Status)
	}
	return fmt.Sprintf("❌ Failed to submit %s app `%s` referred by %s for assessment.\nError: %s",
		desc.Platform.Label(), desc.BundleID, desc.URL, res.Status)
}

// recordAudit appends the request to the audit trail. Audit failures are
// logged and never block the submission.
func (s *Submissions) recordAudit(cmd channel.Command, rawURL string) {
	if s.audit == nil {
		return
	}
	tag := cmd.UserName
	if tag == "" {
		tag = "unknown"
	}
	err := s.audit.Record(auditlog.Entry{
		Timestamp: cmd.ReceivedAt,
		ClientTag: tag,
		URL:       rawURL,
	})
	if err != nil {
		s.logger.Warn("record audit entry failed", slog.Any("error", err))
	}
}
