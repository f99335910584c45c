// Package channel provides a unified abstraction for messaging transports.
// It defines types, interfaces, and a registry for channel adapters such as Slack.
package channel

import (
	"strings"
	"time"
)

// ChannelType identifies a messaging platform (e.g., "slack").
type ChannelType string

// String returns the channel type as a plain string.
func (c ChannelType) String() string {
	return string(c)
}

// Identity represents a sender's identity on a channel. For messages posted by
// platform bots, DisplayName carries the bot profile's display name.
type Identity struct {
	SubjectID   string
	DisplayName string
	Attributes  map[string]string
}

// Attribute returns the trimmed value for the given key, or empty string if absent.
func (i Identity) Attribute(key string) string {
	if i.Attributes == nil {
		return ""
	}
	return strings.TrimSpace(i.Attributes[key])
}

// Conversation holds metadata about the chat or group context.
type Conversation struct {
	ID       string
	Type     string
	ThreadID string
}

// Action describes an interactive button or link element in a message.
type Action struct {
	Type  string `json:"type"`
	Label string `json:"label,omitempty"`
	Value string `json:"value,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Message is the unified message structure used across all channels.
// ID is the platform's message identifier (on Slack, the message timestamp).
type Message struct {
	ID      string   `json:"id,omitempty"`
	Text    string   `json:"text,omitempty"`
	Actions []Action `json:"actions,omitempty"`
}

// IsEmpty reports whether the message carries no content.
func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Text) == "" && len(m.Actions) == 0
}

// ActionURL returns the URL of the first button action whose label or value
// equals the given label. Later duplicates are ignored.
func (m Message) ActionURL(label string) string {
	label = strings.TrimSpace(label)
	for _, action := range m.Actions {
		if action.Type != "button" {
			continue
		}
		if strings.TrimSpace(action.URL) == "" {
			continue
		}
		if strings.TrimSpace(action.Label) == label || strings.TrimSpace(action.Value) == label {
			return strings.TrimSpace(action.URL)
		}
	}
	return ""
}

// InboundMessage is a message received from an external channel.
type InboundMessage struct {
	Channel      ChannelType
	Message      Message
	Sender       Identity
	Conversation Conversation
	ReceivedAt   time.Time
	Source       string
}

// OutboundMessage pairs a delivery target with the message content.
type OutboundMessage struct {
	Target   string  `json:"target"`
	ThreadID string  `json:"thread_id,omitempty"`
	Message  Message `json:"message"`
}

// FileUpload is the input for posting a binary file into a conversation.
// ThreadID anchors the upload as a threaded reply when non-empty.
type FileUpload struct {
	Target   string
	Filename string
	Title    string
	Comment  string
	ThreadID string
	Data     []byte
}

// Command is a slash-command invocation received from a channel.
type Command struct {
	Name        string
	Text        string
	ChannelID   string
	UserID      string
	UserName    string
	ResponseURL string
	ReceivedAt  time.Time
}
