package slack

import (
	"strconv"
	"strings"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/vetbotio/vetbot/internal/channel"
)

// newInboundMessage converts a Slack message event into the unified inbound
// form. botName is the resolved bot profile display name, empty for human
// senders.
func newInboundMessage(ev *slackevents.MessageEvent, botName string) channel.InboundMessage {
	sender := channel.Identity{
		SubjectID:   ev.User,
		DisplayName: botName,
	}
	if ev.BotID != "" {
		sender.SubjectID = ev.BotID
		sender.Attributes = map[string]string{"bot_id": ev.BotID}
	}
	return channel.InboundMessage{
		Channel: Type,
		Message: channel.Message{
			ID:      ev.TimeStamp,
			Text:    ev.Text,
			Actions: convertBlocks(ev.Blocks),
		},
		Sender: sender,
		Conversation: channel.Conversation{
			ID:       ev.Channel,
			Type:     ev.ChannelType,
			ThreadID: ev.ThreadTimeStamp,
		},
		ReceivedAt: parseSlackTimestamp(ev.TimeStamp),
		Source:     "slack",
	}
}

// convertBlocks flattens Block Kit action blocks into unified actions. Only
// button elements are kept; other block and element kinds carry no links we
// dispatch on.
func convertBlocks(blocks slackapi.Blocks) []channel.Action {
	var actions []channel.Action
	for _, block := range blocks.BlockSet {
		actionBlock, ok := block.(*slackapi.ActionBlock)
		if !ok || actionBlock.Elements == nil {
			continue
		}
		for _, element := range actionBlock.Elements.ElementSet {
			button, ok := element.(*slackapi.ButtonBlockElement)
			if !ok {
				continue
			}
			action := channel.Action{
				Type:  "button",
				Value: button.Value,
				URL:   button.URL,
			}
			if button.Text != nil {
				action.Label = button.Text.Text
			}
			actions = append(actions, action)
		}
	}
	return actions
}

// parseSlackTimestamp converts a Slack "seconds.fraction" message timestamp
// into a time.Time, falling back to now for malformed input.
func parseSlackTimestamp(ts string) time.Time {
	secs, _, _ := strings.Cut(ts, ".")
	n, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return time.Now().UTC()
	}
	return time.Unix(n, 0).UTC()
}
