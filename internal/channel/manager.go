package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Manager owns the live connections for every registered receiver adapter.
// It connects them on Start, exposes them for health checks, and stops them
// on Shutdown.
type Manager struct {
	logger   *slog.Logger
	registry *Registry
	handler  InboundHandler
	commands CommandHandler

	mu    sync.Mutex
	conns []Connection
}

// NewManager creates a Manager that routes inbound messages to handler and
// slash commands to commands.
func NewManager(log *slog.Logger, registry *Registry, handler InboundHandler, commands CommandHandler) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		logger:   log.With(slog.String("component", "channel_manager")),
		registry: registry,
		handler:  handler,
		commands: commands,
	}
}

// Start connects every receiver adapter in the registry. A failure to connect
// any adapter is fatal: the transport credentials are static process
// configuration, so a failed connect will not heal on its own.
func (m *Manager) Start(ctx context.Context) error {
	for _, adapter := range m.registry.List() {
		receiver, ok := adapter.(Receiver)
		if !ok {
			continue
		}
		conn, err := receiver.Connect(ctx, m.handler, m.commands)
		if err != nil {
			return fmt.Errorf("connect %s: %w", adapter.Type(), err)
		}
		m.logger.Info("channel connected", slog.String("channel", adapter.Type().String()))
		m.mu.Lock()
		m.conns = append(m.conns, conn)
		m.mu.Unlock()
	}
	return nil
}

// Shutdown stops all live connections.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	conns := m.conns
	m.conns = nil
	m.mu.Unlock()
	var errs []error
	for _, conn := range conns {
		if err := conn.Stop(ctx); err != nil && !errors.Is(err, ErrStopNotSupported) {
			errs = append(errs, fmt.Errorf("stop %s: %w", conn.ChannelType(), err))
		}
	}
	return errors.Join(errs...)
}

// Connections returns a snapshot of the live connections.
func (m *Manager) Connections() []Connection {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]Connection, len(m.conns))
	copy(items, m.conns)
	return items
}
