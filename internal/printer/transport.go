// internal/printer/transport.go
package printer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"pos-service/internal/model"
	"pos-service/internal/protocol"
)

// ProtocolFactory builds a protocol channel for a connection type.
type ProtocolFactory func(model.ConnectionType, map[string]interface{}, *zap.Logger) (protocol.DeviceProtocol, error)

// Transport owns the single printer connection and its state machine:
// disconnected -> connecting -> connected, back to disconnected on
// disconnect, connect failure, or a write error. All printing goes
// through WriteRaw so a broken channel is torn down in one place.
type Transport struct {
	logger  *zap.Logger
	factory ProtocolFactory
	width   int

	mutex sync.RWMutex
	conn  protocol.DeviceProtocol
	state model.ConnectionState
}

// NewTransport creates a transport for the given paper width.
func NewTransport(width int, logger *zap.Logger) *Transport {
	if width <= 0 {
		width = PaperWidth58
	}
	return &Transport{
		logger:  logger.With(zap.String("component", "printer_transport")),
		factory: protocol.CreateProtocol,
		width:   width,
		state: model.ConnectionState{
			Status: model.ConnectionStatusDisconnected,
		},
	}
}

// SetProtocolFactory overrides how channels are built. Used by tests.
func (t *Transport) SetProtocolFactory(factory ProtocolFactory) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.factory = factory
}

// Connect opens a channel to the device and sends the initialize
// sequence. An existing connection is closed first; only one printer is
// connected at a time.
func (t *Transport) Connect(ctx context.Context, device model.PairedDevice, config map[string]interface{}) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.conn != nil {
		t.closeLocked()
	}

	t.state = model.ConnectionState{
		Status:        model.ConnectionStatusConnecting,
		DeviceAddress: device.Address,
		DeviceName:    device.Name,
	}

	t.logger.Info("Connecting to printer",
		zap.String("address", device.Address),
		zap.String("type", string(device.Type)),
	)

	conn, err := t.factory(device.Type, config, t.logger)
	if err != nil {
		t.failLocked(device, fmt.Errorf("invalid printer configuration: %w", err))
		return fmt.Errorf("invalid printer configuration: %w", err)
	}

	if err := conn.Open(ctx); err != nil {
		t.failLocked(device, err)
		return fmt.Errorf("failed to connect to %s: %w", device.Address, err)
	}

	if err := conn.Write(ctx, ESC_POS_COMMANDS.INITIALIZE); err != nil {
		conn.Close()
		t.failLocked(device, err)
		return fmt.Errorf("printer initialization failed: %w", err)
	}

	now := time.Now()
	t.conn = conn
	t.state = model.ConnectionState{
		Status:        model.ConnectionStatusConnected,
		DeviceAddress: device.Address,
		DeviceName:    device.Name,
		ConnectedAt:   &now,
	}

	t.logger.Info("Printer connected", zap.String("address", device.Address))
	return nil
}

// Disconnect closes the channel. Close errors are swallowed; the state
// always ends disconnected.
func (t *Transport) Disconnect() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.closeLocked()
	t.state = model.ConnectionState{
		Status: model.ConnectionStatusDisconnected,
	}
	t.logger.Info("Printer disconnected")
}

// State returns a snapshot of the connection state.
func (t *Transport) State() model.ConnectionState {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.state
}

// IsConnected reports whether a channel is open.
func (t *Transport) IsConnected() bool {
	return t.State().IsConnected()
}

// Width returns the paper width in characters.
func (t *Transport) Width() int {
	return t.width
}

// WriteRaw writes bytes to the printer. A write error tears the
// connection down and records the failure reason in the state.
func (t *Transport) WriteRaw(ctx context.Context, data []byte) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.conn == nil || t.state.Status != model.ConnectionStatusConnected {
		return fmt.Errorf("printer not connected")
	}

	if err := t.conn.Write(ctx, data); err != nil {
		t.logger.Error("Printer write failed, dropping connection", zap.Error(err))
		t.closeLocked()
		t.state = model.ConnectionState{
			Status:        model.ConnectionStatusDisconnected,
			DeviceAddress: t.state.DeviceAddress,
			DeviceName:    t.state.DeviceName,
			LastError:     err.Error(),
		}
		return fmt.Errorf("print failed: %w", err)
	}

	return nil
}

// PrintText prints one line with the given style and restores normal
// size, bold off and left alignment afterwards.
func (t *Transport) PrintText(ctx context.Context, content string, style TextStyle) error {
	var buf []byte

	if style.Centered {
		buf = append(buf, ESC_POS_COMMANDS.ALIGN_CENTER...)
	} else {
		buf = append(buf, ESC_POS_COMMANDS.ALIGN_LEFT...)
	}
	if style.DoubleSize {
		buf = append(buf, ESC_POS_COMMANDS.TEXT_SIZE_DOUBLE_BOTH...)
	}
	// Double-size text is already emphasized; bolding it on top
	// renders smeared on cheap thermal heads
	if style.Bold && !style.DoubleSize {
		buf = append(buf, ESC_POS_COMMANDS.TEXT_BOLD_ON...)
	}

	buf = append(buf, []byte(content)...)
	buf = append(buf, ESC_POS_COMMANDS.LINE_FEED...)

	buf = append(buf, ESC_POS_COMMANDS.TEXT_SIZE_NORMAL...)
	buf = append(buf, ESC_POS_COMMANDS.TEXT_BOLD_OFF...)
	buf = append(buf, ESC_POS_COMMANDS.ALIGN_LEFT...)

	return t.WriteRaw(ctx, buf)
}

// PrintTwoColumns prints a left/right row padded to the paper width.
func (t *Transport) PrintTwoColumns(ctx context.Context, left, right string) error {
	return t.PrintText(ctx, FormatTwoColumns(left, right, t.width), TextStyle{})
}

// PrintLine prints unstyled text followed by a line feed.
func (t *Transport) PrintLine(ctx context.Context, content string) error {
	return t.PrintText(ctx, content, TextStyle{})
}

// FeedLines advances the paper n lines.
func (t *Transport) FeedLines(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	if n > 255 {
		n = 255
	}
	cmd := append([]byte{}, ESC_POS_COMMANDS.FEED_LINES...)
	cmd = append(cmd, byte(n))
	return t.WriteRaw(ctx, cmd)
}

// FeedAndCut feeds past the tear bar and performs a partial cut.
func (t *Transport) FeedAndCut(ctx context.Context) error {
	if err := t.FeedLines(ctx, 4); err != nil {
		return err
	}
	return t.WriteRaw(ctx, ESC_POS_COMMANDS.CUT_PARTIAL)
}

// closeLocked closes the channel if one is open, swallowing close
// errors. Callers hold the write lock.
func (t *Transport) closeLocked() {
	if t.conn == nil {
		return
	}
	if err := t.conn.Close(); err != nil {
		t.logger.Warn("Error closing printer connection", zap.Error(err))
	}
	t.conn = nil
}

// failLocked records a failed connect attempt. Callers hold the write
// lock.
func (t *Transport) failLocked(device model.PairedDevice, err error) {
	t.state = model.ConnectionState{
		Status:        model.ConnectionStatusDisconnected,
		DeviceAddress: device.Address,
		DeviceName:    device.Name,
		LastError:     err.Error(),
	}
}

// PrintTestPage prints a short self-test document. The first failing
// step aborts the page and is returned.
func (t *Transport) PrintTestPage(ctx context.Context) error {
	steps := []func() error{
		func() error {
			return t.PrintText(ctx, "PRINTER TEST", TextStyle{Bold: true, Centered: true, DoubleSize: true})
		},
		func() error { return t.PrintLine(ctx, strings.Repeat("=", t.width)) },
		func() error { return t.PrintLine(ctx, "abcdefghijklmnopqrstuvwxyz") },
		func() error { return t.PrintLine(ctx, "0123456789 .:-") },
		func() error { return t.PrintTwoColumns(ctx, "Left column", "Right") },
		func() error { return t.PrintText(ctx, "Bold text", TextStyle{Bold: true}) },
		func() error { return t.PrintText(ctx, "Centered text", TextStyle{Centered: true}) },
		func() error { return t.PrintLine(ctx, strings.Repeat("=", t.width)) },
		func() error { return t.FeedLines(ctx, 3) },
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
