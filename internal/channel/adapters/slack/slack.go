// Package slack implements the channel adapter for Slack using Socket Mode.
package slack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"github.com/vetbotio/vetbot/internal/channel"
)

// Type is the channel type this adapter serves.
const Type = channel.ChannelType("slack")

// Config holds the Slack credentials and command routing for the adapter.
type Config struct {
	// BotToken is the bot user OAuth token (xoxb-).
	BotToken string
	// AppToken is the app-level token for Socket Mode (xapp-).
	AppToken string
	// Command, when set, restricts slash-command dispatch to this command name.
	Command string
}

// Adapter implements channel.Adapter, channel.Sender, channel.FileUploader,
// and channel.Receiver for Slack.
type Adapter struct {
	logger *slog.Logger
	cfg    Config
	api    *slackapi.Client

	mu       sync.Mutex
	botNames map[string]string // bot_id -> bot profile display name
}

// NewAdapter creates a Slack adapter with the given credentials.
func NewAdapter(log *slog.Logger, cfg Config) (*Adapter, error) {
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(cfg.BotToken) == "" {
		return nil, errors.New("slack bot token is required")
	}
	if strings.TrimSpace(cfg.AppToken) == "" {
		return nil, errors.New("slack app token is required")
	}
	return &Adapter{
		logger:   log.With(slog.String("adapter", "slack")),
		cfg:      cfg,
		api:      slackapi.New(cfg.BotToken, slackapi.OptionAppLevelToken(cfg.AppToken)),
		botNames: make(map[string]string),
	}, nil
}

// Type returns the Slack channel type.
func (a *Adapter) Type() channel.ChannelType {
	return Type
}

// Descriptor returns the Slack channel metadata.
func (a *Adapter) Descriptor() channel.Descriptor {
	return channel.Descriptor{
		Type:        Type,
		DisplayName: "Slack",
		Capabilities: channel.ChannelCapabilities{
			Text:     true,
			Reply:    true,
			Files:    true,
			Commands: true,
		},
	}
}

// Connect opens a Socket Mode connection and forwards message events to
// handler and slash commands to commands. Events are dispatched one at a
// time; each handler invocation runs to completion before the next event is
// considered.
func (a *Adapter) Connect(ctx context.Context, handler channel.InboundHandler, commands channel.CommandHandler) (channel.Connection, error) {
	if handler == nil {
		return nil, errors.New("inbound handler is required")
	}
	sock := socketmode.New(a.api)
	connCtx, cancel := context.WithCancel(ctx)

	go func() {
		if err := sock.RunContext(connCtx); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("socket mode stopped", slog.Any("error", err))
		}
	}()
	go a.eventLoop(connCtx, sock, handler, commands)

	stop := func(_ context.Context) error {
		a.logger.Info("stop")
		cancel()
		return nil
	}
	return channel.NewConnection(Type, stop), nil
}

func (a *Adapter) eventLoop(ctx context.Context, sock *socketmode.Client, handler channel.InboundHandler, commands channel.CommandHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-sock.Events:
			if !ok {
				a.logger.Info("events channel closed")
				return
			}
			switch evt.Type {
			case socketmode.EventTypeConnected:
				a.logger.Info("connected")
			case socketmode.EventTypeConnectionError:
				a.logger.Warn("connection error", slog.Any("data", evt.Data))
			case socketmode.EventTypeEventsAPI:
				apiEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}
				if evt.Request != nil {
					sock.Ack(*evt.Request)
				}
				a.handleEventsAPI(ctx, apiEvent, handler)
			case socketmode.EventTypeSlashCommand:
				cmd, ok := evt.Data.(slackapi.SlashCommand)
				if !ok {
					continue
				}
				if evt.Request != nil {
					sock.Ack(*evt.Request)
				}
				a.handleSlashCommand(ctx, cmd, commands)
			}
		}
	}
}

func (a *Adapter) handleEventsAPI(ctx context.Context, apiEvent slackevents.EventsAPIEvent, handler channel.InboundHandler) {
	if apiEvent.Type != slackevents.CallbackEvent {
		return
	}
	ev, ok := apiEvent.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok {
		return
	}
	if ev.SubType == "message_changed" || ev.SubType == "message_deleted" {
		return
	}
	msg := newInboundMessage(ev, a.botProfileName(ctx, ev.BotID))
	a.logger.Debug(
		"inbound received",
		slog.String("channel_id", msg.Conversation.ID),
		slog.String("sender", msg.Sender.DisplayName),
		slog.String("ts", msg.Message.ID),
	)
	if err := handler(ctx, msg); err != nil {
		a.logger.Error("handle inbound failed", slog.String("ts", msg.Message.ID), slog.Any("error", err))
	}
}

func (a *Adapter) handleSlashCommand(ctx context.Context, cmd slackapi.SlashCommand, commands channel.CommandHandler) {
	if commands == nil {
		return
	}
	if a.cfg.Command != "" && cmd.Command != a.cfg.Command {
		a.logger.Debug("ignoring unrouted command", slog.String("command", cmd.Command))
		return
	}
	a.logger.Info(
		"command received",
		slog.String("command", cmd.Command),
		slog.String("user", cmd.UserName),
		slog.String("channel_id", cmd.ChannelID),
	)
	reply, err := commands(ctx, channel.Command{
		Name:        cmd.Command,
		Text:        cmd.Text,
		ChannelID:   cmd.ChannelID,
		UserID:      cmd.UserID,
		UserName:    cmd.UserName,
		ResponseURL: cmd.ResponseURL,
		ReceivedAt:  time.Now().UTC(),
	})
	if err != nil {
		a.logger.Error("handle command failed", slog.String("command", cmd.Command), slog.Any("error", err))
		return
	}
	if reply == "" {
		return
	}
	err = slackapi.PostWebhookContext(ctx, cmd.ResponseURL, &slackapi.WebhookMessage{
		Text:         reply,
		ResponseType: "ephemeral",
	})
	if err != nil {
		a.logger.Error("post command response failed", slog.String("command", cmd.Command), slog.Any("error", err))
	}
}

// botProfileName resolves a bot ID to its profile display name via bots.info,
// caching results for the adapter's lifetime.
func (a *Adapter) botProfileName(ctx context.Context, botID string) string {
	botID = strings.TrimSpace(botID)
	if botID == "" {
		return ""
	}
	a.mu.Lock()
	name, ok := a.botNames[botID]
	a.mu.Unlock()
	if ok {
		return name
	}
	bot, err := a.api.GetBotInfoContext(ctx, slackapi.GetBotInfoParameters{Bot: botID})
	if err != nil {
		a.logger.Warn("resolve bot profile failed", slog.String("bot_id", botID), slog.Any("error", err))
		return ""
	}
	a.mu.Lock()
	a.botNames[botID] = bot.Name
	a.mu.Unlock()
	return bot.Name
}

// Send delivers an outbound text message, optionally as a threaded reply.
func (a *Adapter) Send(ctx context.Context, msg channel.OutboundMessage) error {
	target := strings.TrimSpace(msg.Target)
	if target == "" {
		return fmt.Errorf("slack target is required")
	}
	if msg.Message.IsEmpty() {
		return fmt.Errorf("message is required")
	}
	opts := []slackapi.MsgOption{slackapi.MsgOptionText(msg.Message.Text, false)}
	if ts := strings.TrimSpace(msg.ThreadID); ts != "" {
		opts = append(opts, slackapi.MsgOptionTS(ts))
	}
	_, _, err := a.api.PostMessageContext(ctx, target, opts...)
	return err
}

// UploadFile posts a file attachment into a conversation, threaded under
// up.ThreadID when set.
func (a *Adapter) UploadFile(ctx context.Context, up channel.FileUpload) error {
	if strings.TrimSpace(up.Target) == "" {
		return fmt.Errorf("slack target is required")
	}
	if len(up.Data) == 0 {
		return fmt.Errorf("file content is required")
	}
	_, err := a.api.UploadFileV2Context(ctx, slackapi.UploadFileV2Parameters{
		Channel:         up.Target,
		Reader:          bytes.NewReader(up.Data),
		FileSize:        len(up.Data),
		Filename:        up.Filename,
		Title:           up.Title,
		InitialComment:  up.Comment,
		ThreadTimestamp: up.ThreadID,
	})
	if err != nil {
		return fmt.Errorf("upload file: %w", err)
	}
	return nil
}
