package channel

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrStopNotSupported is returned when a connection does not support graceful shutdown.
var ErrStopNotSupported = errors.New("channel connection stop not supported")

// InboundHandler is a callback invoked when a message arrives from a channel.
type InboundHandler func(ctx context.Context, msg InboundMessage) error

// CommandHandler is a callback invoked when a slash command arrives.
// The returned string, when non-empty, is delivered back to the invoking user.
type CommandHandler func(ctx context.Context, cmd Command) (string, error)

// Adapter is the base interface every channel adapter must implement.
type Adapter interface {
	Type() ChannelType
	Descriptor() Descriptor
}

// Descriptor holds read-only metadata for a registered channel type.
type Descriptor struct {
	Type         ChannelType
	DisplayName  string
	Capabilities ChannelCapabilities
}

// ChannelCapabilities describes what a channel adapter supports.
type ChannelCapabilities struct {
	Text     bool
	Reply    bool
	Files    bool
	Commands bool
}

// Sender is an adapter capable of sending outbound text messages.
type Sender interface {
	Send(ctx context.Context, msg OutboundMessage) error
}

// FileUploader is an adapter capable of posting file attachments.
type FileUploader interface {
	UploadFile(ctx context.Context, up FileUpload) error
}

// Receiver is an adapter capable of establishing a long-lived connection to
// receive messages and slash commands.
type Receiver interface {
	Connect(ctx context.Context, handler InboundHandler, commands CommandHandler) (Connection, error)
}

// Connection represents an active, long-lived link to a channel platform.
type Connection interface {
	ChannelType() ChannelType
	Stop(ctx context.Context) error
	Running() bool
}

// BaseConnection is a default Connection implementation backed by a stop function.
type BaseConnection struct {
	channelType ChannelType
	stop        func(ctx context.Context) error
	running     atomic.Bool
}

// NewConnection creates a BaseConnection for the given channel type and stop function.
func NewConnection(channelType ChannelType, stop func(ctx context.Context) error) *BaseConnection {
	conn := &BaseConnection{
		channelType: channelType,
		stop:        stop,
	}
	conn.running.Store(true)
	return conn
}

// ChannelType returns the type of channel this connection serves.
func (c *BaseConnection) ChannelType() ChannelType {
	return c.channelType
}

// Stop gracefully shuts down the connection.
func (c *BaseConnection) Stop(ctx context.Context) error {
	if c.stop == nil {
		return ErrStopNotSupported
	}
	c.running.Store(false)
	return c.stop(ctx)
}

// Running reports whether the connection is still active.
func (c *BaseConnection) Running() bool {
	return c.running.Load()
}
