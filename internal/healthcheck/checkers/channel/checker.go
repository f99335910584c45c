package channelchecker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vetbotio/vetbot/internal/channel"
	"github.com/vetbotio/vetbot/internal/healthcheck"
)

const checkTypeChannelConnection = "channel.connection"

// ConnectionSource reads the live channel connections.
type ConnectionSource interface {
	Connections() []channel.Connection
}

// Checker evaluates channel connection health checks.
type Checker struct {
	logger *slog.Logger
	source ConnectionSource
}

// NewChecker creates a channel health checker.
func NewChecker(log *slog.Logger, source ConnectionSource) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		logger: log.With(slog.String("checker", "healthcheck_channel")),
		source: source,
	}
}

// ListChecks reports one check per live channel connection. No connections at
// all is itself an error: the process exists to listen.
func (c *Checker) ListChecks(ctx context.Context) []healthcheck.CheckResult {
	if err := ctx.Err(); err != nil {
		return []healthcheck.CheckResult{}
	}
	if c.source == nil {
		c.logger.Warn("channel healthcheck dependency is unavailable")
		return []healthcheck.CheckResult{
			{
				ID:      checkTypeChannelConnection + ".service",
				Type:    checkTypeChannelConnection,
				Status:  healthcheck.StatusWarn,
				Summary: "Channel checker service is not available.",
				Detail:  "connection source is nil",
			},
		}
	}

	conns := c.source.Connections()
	if len(conns) == 0 {
		return []healthcheck.CheckResult{
			{
				ID:      checkTypeChannelConnection + ".none",
				Type:    checkTypeChannelConnection,
				Status:  healthcheck.StatusError,
				Summary: "No channel connections are established.",
			},
		}
	}
	sort.Slice(conns, func(i, j int) bool {
		return conns[i].ChannelType() < conns[j].ChannelType()
	})

	checks := make([]healthcheck.CheckResult, 0, len(conns))
	for _, conn := range conns {
		channelType := strings.TrimSpace(conn.ChannelType().String())
		if channelType == "" {
			channelType = "unknown"
		}
		item := healthcheck.CheckResult{
			ID:       checkTypeChannelConnection + "." + channelType,
			Type:     checkTypeChannelConnection,
			Subtitle: channelType,
			Status:   healthcheck.StatusError,
			Summary:  fmt.Sprintf("Channel %s connection is down.", channelType),
			Metadata: map[string]any{
				"channel_type": channelType,
				"running":      conn.Running(),
			},
		}
		if conn.Running() {
			item.Status = healthcheck.StatusOK
			item.Summary = fmt.Sprintf("Channel %s is connected.", channelType)
		}
		checks = append(checks, item)
	}
	return checks
}
