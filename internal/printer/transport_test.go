// internal/printer/transport_test.go
package printer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"

	"pos-service/internal/model"
	"pos-service/internal/protocol"
)

// fakeConn records writes and can be told to fail opening or writing.
type fakeConn struct {
	mu       sync.Mutex
	openErr  error
	writeErr error
	writes   [][]byte
	isOpen   bool
	closed   int
}

func (fc *fakeConn) Open(ctx context.Context) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.openErr != nil {
		return fc.openErr
	}
	fc.isOpen = true
	return nil
}

func (fc *fakeConn) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.isOpen = false
	fc.closed++
	return nil
}

func (fc *fakeConn) IsOpen() bool {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.isOpen
}

func (fc *fakeConn) Write(ctx context.Context, data []byte) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.writeErr != nil {
		return fc.writeErr
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	fc.writes = append(fc.writes, buf)
	return nil
}

func (fc *fakeConn) Read(ctx context.Context, maxBytes int) ([]byte, error) {
	return nil, fmt.Errorf("not supported")
}

func (fc *fakeConn) GetProtocolType() model.ConnectionType {
	return model.ConnectionTypeBluetooth
}

func (fc *fakeConn) Ping(ctx context.Context) error {
	return nil
}

func (fc *fakeConn) setWriteErr(err error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.writeErr = err
}

func (fc *fakeConn) writtenBytes() []byte {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return bytes.Join(fc.writes, nil)
}

func newTestTransport(fc *fakeConn) *Transport {
	t := NewTransport(32, zap.NewNop())
	t.SetProtocolFactory(func(ct model.ConnectionType, cfg map[string]interface{}, logger *zap.Logger) (protocol.DeviceProtocol, error) {
		return fc, nil
	})
	return t
}

func testDevice() model.PairedDevice {
	return model.PairedDevice{
		Name:    "BT Printer",
		Address: "AA:BB:CC:DD:EE:FF",
		Type:    model.ConnectionTypeBluetooth,
	}
}

func TestTransportConnect(t *testing.T) {
	fc := &fakeConn{}
	tr := newTestTransport(fc)

	if err := tr.Connect(context.Background(), testDevice(), nil); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if !tr.IsConnected() {
		t.Error("transport not connected after Connect")
	}

	state := tr.State()
	if state.Status != model.ConnectionStatusConnected {
		t.Errorf("status = %s, want connected", state.Status)
	}
	if state.DeviceAddress != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("device address = %q", state.DeviceAddress)
	}
	if state.ConnectedAt == nil {
		t.Error("connected_at not recorded")
	}

	// The initialize sequence is the first thing on the wire.
	if len(fc.writes) == 0 || !bytes.Equal(fc.writes[0], ESC_POS_COMMANDS.INITIALIZE) {
		t.Errorf("first write = %v, want ESC @", fc.writes)
	}
}

func TestTransportConnectFailure(t *testing.T) {
	fc := &fakeConn{openErr: fmt.Errorf("device unreachable")}
	tr := newTestTransport(fc)

	err := tr.Connect(context.Background(), testDevice(), nil)
	if err == nil {
		t.Fatal("Connect succeeded against an unreachable device")
	}

	if tr.IsConnected() {
		t.Error("transport connected after failed Connect")
	}

	state := tr.State()
	if state.Status != model.ConnectionStatusDisconnected {
		t.Errorf("status = %s, want disconnected", state.Status)
	}
	if state.LastError == "" {
		t.Error("failed connect left no error message")
	}
}

func TestTransportConnectReplacesExisting(t *testing.T) {
	first := &fakeConn{}
	tr := newTestTransport(first)
	if err := tr.Connect(context.Background(), testDevice(), nil); err != nil {
		t.Fatalf("first Connect failed: %v", err)
	}

	second := &fakeConn{}
	tr.SetProtocolFactory(func(ct model.ConnectionType, cfg map[string]interface{}, logger *zap.Logger) (protocol.DeviceProtocol, error) {
		return second, nil
	})
	if err := tr.Connect(context.Background(), testDevice(), nil); err != nil {
		t.Fatalf("second Connect failed: %v", err)
	}

	if first.closed != 1 {
		t.Errorf("previous connection closed %d times, want 1", first.closed)
	}
	if !tr.IsConnected() {
		t.Error("transport not connected after reconnect")
	}
}

func TestTransportWriteRawNotConnected(t *testing.T) {
	tr := newTestTransport(&fakeConn{})

	err := tr.WriteRaw(context.Background(), []byte{0x0A})
	if err == nil {
		t.Fatal("WriteRaw succeeded while disconnected")
	}
	if !strings.Contains(err.Error(), "printer not connected") {
		t.Errorf("error = %q, want printer not connected", err)
	}
}

func TestTransportWriteErrorTearsDown(t *testing.T) {
	fc := &fakeConn{}
	tr := newTestTransport(fc)
	if err := tr.Connect(context.Background(), testDevice(), nil); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	fc.setWriteErr(fmt.Errorf("broken pipe"))

	if err := tr.WriteRaw(context.Background(), []byte{0x0A}); err == nil {
		t.Fatal("WriteRaw succeeded on a broken channel")
	}

	if tr.IsConnected() {
		t.Error("transport still connected after write error")
	}

	state := tr.State()
	if state.LastError == "" {
		t.Error("write failure left no error message")
	}
	if fc.closed != 1 {
		t.Errorf("broken connection closed %d times, want 1", fc.closed)
	}
}

func TestTransportDisconnect(t *testing.T) {
	fc := &fakeConn{}
	tr := newTestTransport(fc)
	if err := tr.Connect(context.Background(), testDevice(), nil); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	tr.Disconnect()

	if tr.IsConnected() {
		t.Error("transport connected after Disconnect")
	}
	if fc.closed != 1 {
		t.Errorf("connection closed %d times, want 1", fc.closed)
	}

	// Disconnecting again is a no-op.
	tr.Disconnect()
	if fc.closed != 1 {
		t.Error("second Disconnect closed the channel again")
	}
}

func TestTransportPrintTextRestoresStyle(t *testing.T) {
	fc := &fakeConn{}
	tr := newTestTransport(fc)
	if err := tr.Connect(context.Background(), testDevice(), nil); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if err := tr.PrintText(context.Background(), "Hi", TextStyle{Bold: true, Centered: true}); err != nil {
		t.Fatalf("PrintText failed: %v", err)
	}

	payload := fc.writes[len(fc.writes)-1]

	if !bytes.HasPrefix(payload, ESC_POS_COMMANDS.ALIGN_CENTER) {
		t.Errorf("styled text does not start with center alignment: %v", payload)
	}
	if !bytes.Contains(payload, ESC_POS_COMMANDS.TEXT_BOLD_ON) {
		t.Error("styled text missing bold on")
	}

	// Normal size, bold off and left alignment always follow the text.
	reset := append([]byte{}, ESC_POS_COMMANDS.TEXT_SIZE_NORMAL...)
	reset = append(reset, ESC_POS_COMMANDS.TEXT_BOLD_OFF...)
	reset = append(reset, ESC_POS_COMMANDS.ALIGN_LEFT...)
	if !bytes.HasSuffix(payload, reset) {
		t.Errorf("styled text does not restore defaults: %v", payload)
	}
}

func TestTransportPrintTextDoubleSizeSkipsBold(t *testing.T) {
	fc := &fakeConn{}
	tr := newTestTransport(fc)
	if err := tr.Connect(context.Background(), testDevice(), nil); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if err := tr.PrintText(context.Background(), "TOTAL", TextStyle{Bold: true, Centered: true, DoubleSize: true}); err != nil {
		t.Fatalf("PrintText failed: %v", err)
	}

	payload := fc.writes[len(fc.writes)-1]

	if !bytes.Contains(payload, ESC_POS_COMMANDS.TEXT_SIZE_DOUBLE_BOTH) {
		t.Error("double-size text missing size command")
	}
	// Bold is suppressed while double size is active; only the
	// trailing reset carries bold off.
	if bytes.Contains(payload, ESC_POS_COMMANDS.TEXT_BOLD_ON) {
		t.Error("double-size text must not enable bold")
	}
	if !bytes.HasSuffix(payload, append(append(append([]byte{}, ESC_POS_COMMANDS.TEXT_SIZE_NORMAL...), ESC_POS_COMMANDS.TEXT_BOLD_OFF...), ESC_POS_COMMANDS.ALIGN_LEFT...)) {
		t.Errorf("double-size text does not restore defaults: %v", payload)
	}
}

func TestTransportPrintTwoColumnsWidth(t *testing.T) {
	fc := &fakeConn{}
	tr := newTestTransport(fc)
	if err := tr.Connect(context.Background(), testDevice(), nil); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if err := tr.PrintTwoColumns(context.Background(), "Line Total:", "$75.00"); err != nil {
		t.Fatalf("PrintTwoColumns failed: %v", err)
	}

	want := FormatTwoColumns("Line Total:", "$75.00", 32)
	if utf8.RuneCountInString(want) != 32 {
		t.Fatalf("expected row is %d runes", utf8.RuneCountInString(want))
	}
	if !bytes.Contains(fc.writtenBytes(), []byte(want)) {
		t.Errorf("two-column row %q not written", want)
	}
}

func TestTransportFeedLines(t *testing.T) {
	fc := &fakeConn{}
	tr := newTestTransport(fc)
	if err := tr.Connect(context.Background(), testDevice(), nil); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if err := tr.FeedLines(context.Background(), 3); err != nil {
		t.Fatalf("FeedLines failed: %v", err)
	}

	want := []byte{0x1B, 0x64, 0x03}
	last := fc.writes[len(fc.writes)-1]
	if !bytes.Equal(last, want) {
		t.Errorf("feed command = %v, want %v", last, want)
	}
}

func TestTransportPrintTestPage(t *testing.T) {
	fc := &fakeConn{}
	tr := newTestTransport(fc)
	if err := tr.Connect(context.Background(), testDevice(), nil); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}

	if err := tr.PrintTestPage(context.Background()); err != nil {
		t.Fatalf("PrintTestPage failed: %v", err)
	}
	if !bytes.Contains(fc.writtenBytes(), []byte("PRINTER TEST")) {
		t.Error("test page missing title")
	}

	// A broken channel aborts the page on the first failing step.
	fc.setWriteErr(fmt.Errorf("broken pipe"))
	if err := tr.PrintTestPage(context.Background()); err == nil {
		t.Error("PrintTestPage succeeded on a broken channel")
	}
}
