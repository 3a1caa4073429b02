// internal/protocol/bluetooth_connection.go
package protocol

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"pos-service/internal/model"
)

// BluetoothConnection implements DeviceProtocol for Bluetooth SPP
// printers. The kernel exposes a bound RFCOMM channel as a tty, so once
// the device path is resolved the channel behaves like a serial port.
type BluetoothConnection struct {
	config *BluetoothConfig
	port   serial.Port
	path   string
	logger *zap.Logger
	mutex  sync.RWMutex
	isOpen bool
	stats  *ProtocolStats
}

// NewBluetoothConnection creates a new Bluetooth SPP connection
func NewBluetoothConnection(config *BluetoothConfig, logger *zap.Logger) DeviceProtocol {
	return &BluetoothConnection{
		config: config,
		logger: logger.With(
			zap.String("protocol", "bluetooth"),
			zap.String("mac_address", config.MACAddress),
			zap.String("service_uuid", config.ServiceUUID),
		),
		stats: &ProtocolStats{
			IsConnected: false,
		},
	}
}

// Open resolves the RFCOMM device for the configured MAC address and
// opens it
func (bc *BluetoothConnection) Open(ctx context.Context) error {
	bc.mutex.Lock()
	defer bc.mutex.Unlock()

	if bc.isOpen {
		return nil
	}

	bc.logger.Info("Opening Bluetooth connection",
		zap.String("mac_address", bc.config.MACAddress),
	)

	path, err := bc.resolveDevicePath()
	if err != nil {
		bc.logger.Error("Failed to resolve RFCOMM device", zap.Error(err))
		return fmt.Errorf("failed to resolve RFCOMM device for %s: %w", bc.config.MACAddress, err)
	}

	mode := &serial.Mode{
		BaudRate: bc.config.BaudRate,
		DataBits: 8,
		StopBits: serial.OneStopBit,
		Parity:   serial.NoParity,
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		bc.logger.Error("Failed to open RFCOMM device", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to open RFCOMM device %s: %w", path, err)
	}

	if err := port.SetReadTimeout(bc.config.Timeout); err != nil {
		port.Close()
		return fmt.Errorf("failed to set read timeout: %w", err)
	}

	bc.port = port
	bc.path = path
	bc.isOpen = true
	bc.stats.IsConnected = true
	bc.stats.LastActivity = time.Now()

	bc.logger.Info("Bluetooth connection opened successfully", zap.String("path", path))
	return nil
}

// Close closes the Bluetooth connection. Close errors from the tty are
// logged and swallowed so teardown always succeeds.
func (bc *BluetoothConnection) Close() error {
	bc.mutex.Lock()
	defer bc.mutex.Unlock()

	if !bc.isOpen || bc.port == nil {
		return nil
	}

	if err := bc.port.Close(); err != nil {
		bc.logger.Warn("Error closing RFCOMM device", zap.Error(err))
	}

	bc.port = nil
	bc.isOpen = false
	bc.stats.IsConnected = false

	bc.logger.Info("Bluetooth connection closed")
	return nil
}

// IsOpen returns whether the connection is open
func (bc *BluetoothConnection) IsOpen() bool {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()
	return bc.isOpen && bc.port != nil
}

// Write writes data to the printer channel
func (bc *BluetoothConnection) Write(ctx context.Context, data []byte) error {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()

	if !bc.isOpen || bc.port == nil {
		return fmt.Errorf("bluetooth connection not open")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	startTime := time.Now()
	n, err := bc.port.Write(data)
	if err != nil {
		bc.stats.ErrorCount++
		bc.logger.Error("Bluetooth write failed", zap.Error(err))
		return fmt.Errorf("failed to write to printer: %w", err)
	}

	if n != len(data) {
		return fmt.Errorf("incomplete write: wrote %d of %d bytes", n, len(data))
	}

	duration := time.Since(startTime)
	bc.stats.BytesWritten += int64(len(data))
	bc.stats.OperationCount++
	bc.stats.LastActivity = time.Now()
	bc.updateAverageLatency(duration)

	bc.logger.Debug("Bluetooth write completed", zap.Int("bytes", len(data)))
	return nil
}

// Read reads status bytes from the printer channel
func (bc *BluetoothConnection) Read(ctx context.Context, maxBytes int) ([]byte, error) {
	bc.mutex.RLock()
	defer bc.mutex.RUnlock()

	if !bc.isOpen || bc.port == nil {
		return nil, fmt.Errorf("bluetooth connection not open")
	}

	buffer := make([]byte, maxBytes)

	done := make(chan struct {
		data []byte
		err  error
	}, 1)

	go func() {
		n, err := bc.port.Read(buffer)
		result := struct {
			data []byte
			err  error
		}{}

		if err != nil {
			result.err = fmt.Errorf("failed to read from printer: %w", err)
		} else {
			result.data = make([]byte, n)
			copy(result.data, buffer[:n])
		}
		done <- result
	}()

	select {
	case result := <-done:
		if result.err != nil {
			bc.stats.ErrorCount++
			return nil, result.err
		}

		bc.stats.BytesRead += int64(len(result.data))
		bc.stats.OperationCount++
		bc.stats.LastActivity = time.Now()

		return result.data, nil

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetProtocolType returns the protocol type
func (bc *BluetoothConnection) GetProtocolType() model.ConnectionType {
	return model.ConnectionTypeBluetooth
}

// Ping tests the connection with a status request
func (bc *BluetoothConnection) Ping(ctx context.Context) error {
	if !bc.IsOpen() {
		return fmt.Errorf("bluetooth connection not open")
	}

	return bc.Write(ctx, statusRequest)
}

// resolveDevicePath finds the tty backing the RFCOMM binding. An
// explicit device_path wins; otherwise the first rfcomm port from the
// system port list is used.
func (bc *BluetoothConnection) resolveDevicePath() (string, error) {
	if bc.config.DevicePath != "" {
		return bc.config.DevicePath, nil
	}

	ports, err := serial.GetPortsList()
	if err != nil {
		return "", fmt.Errorf("failed to list serial ports: %w", err)
	}

	for _, port := range ports {
		if strings.Contains(port, "rfcomm") {
			return port, nil
		}
	}

	return "", fmt.Errorf("no RFCOMM device found, bind one with: rfcomm bind 0 %s", bc.config.MACAddress)
}

// updateAverageLatency updates the running average latency
func (bc *BluetoothConnection) updateAverageLatency(newLatency time.Duration) {
	if bc.stats.AverageLatency == 0 {
		bc.stats.AverageLatency = newLatency
	} else {
		bc.stats.AverageLatency = (bc.stats.AverageLatency + newLatency) / 2
	}
}
