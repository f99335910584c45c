package channelchecker

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/vetbotio/vetbot/internal/channel"
	"github.com/vetbotio/vetbot/internal/healthcheck"
)

type fakeConnectionSource struct {
	items []channel.Connection
}

func (f *fakeConnectionSource) Connections() []channel.Connection {
	return f.items
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCheckerListChecks(t *testing.T) {
	t.Parallel()

	running := channel.NewConnection(channel.ChannelType("slack"), func(context.Context) error { return nil })
	stopped := channel.NewConnection(channel.ChannelType("matrix"), func(context.Context) error { return nil })
	_ = stopped.Stop(context.Background())

	checker := NewChecker(newTestLogger(), &fakeConnectionSource{
		items: []channel.Connection{running, stopped},
	})

	items := checker.ListChecks(context.Background())
	if len(items) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(items))
	}

	byID := map[string]healthcheck.CheckResult{}
	for _, item := range items {
		byID[item.ID] = item
	}
	if got := byID["channel.connection.slack"].Status; got != healthcheck.StatusOK {
		t.Fatalf("slack status = %q", got)
	}
	if got := byID["channel.connection.matrix"].Status; got != healthcheck.StatusError {
		t.Fatalf("matrix status = %q", got)
	}
}

func TestCheckerListChecksNoConnections(t *testing.T) {
	t.Parallel()

	checker := NewChecker(newTestLogger(), &fakeConnectionSource{})
	items := checker.ListChecks(context.Background())
	if len(items) != 1 {
		t.Fatalf("expected 1 check, got %d", len(items))
	}
	if items[0].Status != healthcheck.StatusError {
		t.Fatalf("status = %q, want error", items[0].Status)
	}
}

func TestCheckerListChecksNilSource(t *testing.T) {
	t.Parallel()

	checker := NewChecker(newTestLogger(), nil)
	items := checker.ListChecks(context.Background())
	if len(items) != 1 || items[0].Status != healthcheck.StatusWarn {
		t.Fatalf("items = %+v", items)
	}
}
