package vetting

import (
	"context"
	"errors"
	"testing"

	"github.com/vetbotio/vetbot/internal/channel"
)

type fakeReports struct {
	pdf   []byte
	err   error
	gotID string
	calls int
}

func (f *fakeReports) FetchReport(_ context.Context, assessmentID string) ([]byte, error) {
	f.calls++
	f.gotID = assessmentID
	return f.pdf, f.err
}

type fakeUploader struct {
	err   error
	got   channel.FileUpload
	calls int
}

func (f *fakeUploader) UploadFile(_ context.Context, up channel.FileUpload) error {
	f.calls++
	f.got = up
	return f.err
}

func TestNotificationsHandleUploadsReport(t *testing.T) {
	reports := &fakeReports{pdf: []byte("%PDF fake")}
	uploader := &fakeUploader{}
	n := NewNotifications(nil, NewExtractor("", ""), reports, uploader)

	msg := platformMessage(
		"A new Assessment is available for Windy",
		assessmentButton("https://app.nowsecure.com/app/x/assessment/51ae3f5e-67ea-11f0-a4ca-13a2b5de6b23"),
	)
	if err := n.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if reports.gotID != "51ae3f5e-67ea-11f0-a4ca-13a2b5de6b23" {
		t.Fatalf("fetched assessment id = %q", reports.gotID)
	}
	if uploader.calls != 1 {
		t.Fatalf("upload calls = %d, want 1", uploader.calls)
	}
	up := uploader.got
	if up.Target != "C08UK5BBA90" {
		t.Fatalf("target = %q", up.Target)
	}
	if up.Filename != "report-51ae3f5e-67ea-11f0-a4ca-13a2b5de6b23.pdf" {
		t.Fatalf("filename = %q", up.Filename)
	}
	if up.Title != "PDF report for app 'Windy'" || up.Comment != up.Title {
		t.Fatalf("title = %q, comment = %q", up.Title, up.Comment)
	}
	if up.ThreadID != "1753295337.014299" {
		t.Fatalf("thread id = %q", up.ThreadID)
	}
	if string(up.Data) != "%PDF fake" {
		t.Fatalf("data = %q", up.Data)
	}
}

func TestNotificationsHandleIgnoresForeignMessages(t *testing.T) {
	reports := &fakeReports{}
	uploader := &fakeUploader{}
	n := NewNotifications(nil, NewExtractor("", ""), reports, uploader)

	msgs := []channel.InboundMessage{
		{Message: channel.Message{Text: "hello"}, Sender: channel.Identity{SubjectID: "U1"}},
		platformMessage("Your weekly summary is ready"),
	}
	for _, msg := range msgs {
		if err := n.Handle(context.Background(), msg); err != nil {
			t.Fatalf("Handle: %v", err)
		}
	}
	if reports.calls != 0 || uploader.calls != 0 {
		t.Fatalf("reports=%d uploads=%d, want 0/0", reports.calls, uploader.calls)
	}
}

func TestNotificationsHandleContainsMalformedNotification(t *testing.T) {
	reports := &fakeReports{}
	uploader := &fakeUploader{}
	n := NewNotifications(nil, NewExtractor("", ""), reports, uploader)

	msg := platformMessage("A new Assessment is available for Windy",
		assessmentButton("https://app.nowsecure.com/app/x/assessment/not-a-uuid"))
	if err := n.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if reports.calls != 0 || uploader.calls != 0 {
		t.Fatalf("reports=%d uploads=%d, want 0/0", reports.calls, uploader.calls)
	}
}

func TestNotificationsHandleContainsFetchFailure(t *testing.T) {
	reports := &fakeReports{err: errors.New("HTTP 404")}
	uploader := &fakeUploader{}
	n := NewNotifications(nil, NewExtractor("", ""), reports, uploader)

	msg := platformMessage("A new Assessment is available for Windy",
		assessmentButton("https://app.nowsecure.com/app/x/assessment/51ae3f5e-67ea-11f0-a4ca-13a2b5de6b23"))
	if err := n.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle must contain fetch failure, got %v", err)
	}
	if uploader.calls != 0 {
		t.Fatalf("upload calls = %d, want 0", uploader.calls)
	}
}

func TestNotificationsHandleContainsUploadFailure(t *testing.T) {
	reports := &fakeReports{pdf: []byte("x")}
	uploader := &fakeUploader{err: errors.New("channel archived")}
	n := NewNotifications(nil, NewExtractor("", ""), reports, uploader)

	msg := platformMessage("A new Assessment is available for Windy",
		assessmentButton("https://app.nowsecure.com/app/x/assessment/51ae3f5e-67ea-11f0-a4ca-13a2b5de6b23"))
	if err := n.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle must contain upload failure, got %v", err)
	}
}
