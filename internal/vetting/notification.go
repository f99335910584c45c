package vetting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vetbotio/vetbot/internal/channel"
)

// ReportFetcher downloads the PDF report for an assessment.
type ReportFetcher interface {
	FetchReport(ctx context.Context, assessmentID string) ([]byte, error)
}

// Notifications is the inbound pipeline: watch platform notifications, fetch
// the matching PDF report, and upload it as a threaded reply.
type Notifications struct {
	logger    *slog.Logger
	extractor *Extractor
	reports   ReportFetcher
	uploader  channel.FileUploader
}

// NewNotifications wires the notification pipeline.
func NewNotifications(log *slog.Logger, extractor *Extractor, reports ReportFetcher, uploader channel.FileUploader) *Notifications {
	if log == nil {
		log = slog.Default()
	}
	return &Notifications{
		logger:    log.With(slog.String("component", "notifications")),
		extractor: extractor,
		reports:   reports,
		uploader:  uploader,
	}
}

// Handle processes one inbound message. Every failure is contained here: the
// message is logged and dropped, never escalated to the transport, so one bad
// notification cannot take the event loop down.
func (n *Notifications) Handle(ctx context.Context, msg channel.InboundMessage) error {
	ref, err := n.extractor.Extract(msg)
	switch {
	case errors.Is(err, ErrNotPlatformBot):
		return nil
	case errors.Is(err, ErrNoNotification):
		n.logger.Debug("platform message without notification", slog.String("ts", msg.Message.ID))
		return nil
	case err != nil:
		n.logger.Warn("malformed assessment notification",
			slog.String("ts", msg.Message.ID), slog.Any("error", err))
		return nil
	}

	n.logger.Info("assessment notification received",
		slog.String("app", ref.AppName),
		slog.String("assessment_id", ref.AssessmentID))

	pdf, err := n.reports.FetchReport(ctx, ref.AssessmentID)
	if err != nil {
		n.logger.Warn("fetch report failed",
			slog.String("assessment_id", ref.AssessmentID), slog.Any("error", err))
		return nil
	}

	caption := fmt.Sprintf("PDF report for app '%s'", ref.AppName)
	up := channel.FileUpload{
		Target:   msg.Conversation.ID,
		Filename: fmt.Sprintf("report-%s.pdf", ref.AssessmentID),
		Title:    caption,
		Comment:  caption,
		ThreadID: msg.Message.ID,
		Data:     pdf,
	}
	if err := n.uploader.UploadFile(ctx, up); err != nil {
		n.logger.Warn("upload report failed",
			slog.String("assessment_id", ref.AssessmentID), slog.Any("error", err))
		return nil
	}

	n.logger.Info("report uploaded",
		slog.String("assessment_id", ref.AssessmentID),
		slog.String("filename", up.Filename))
	return nil
}
