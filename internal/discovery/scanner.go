// internal/discovery/scanner.go
package discovery

import (
	"context"
	"strings"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"pos-service/internal/model"
)

// PortScanner enumerates candidate printer ports on the host: bound
// RFCOMM channels and wired serial adapters. No active Bluetooth
// scanning or pairing happens here; pairing is an OS concern.
type PortScanner struct {
	logger *zap.Logger
	list   func() ([]string, error)
}

// NewPortScanner creates a scanner backed by the system port list.
func NewPortScanner(logger *zap.Logger) *PortScanner {
	return &PortScanner{
		logger: logger.With(zap.String("component", "discovery")),
		list:   serial.GetPortsList,
	}
}

// Scan returns candidate printer devices found on the host.
func (ps *PortScanner) Scan(ctx context.Context) ([]model.PairedDevice, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	ports, err := ps.list()
	if err != nil {
		ps.logger.Error("Port enumeration failed", zap.Error(err))
		return nil, err
	}

	var devices []model.PairedDevice
	for _, port := range ports {
		connType, ok := classifyPort(port)
		if !ok {
			continue
		}
		devices = append(devices, model.PairedDevice{
			Name:    port,
			Address: port,
			Type:    connType,
		})
	}

	ps.logger.Info("Port scan completed",
		zap.Int("ports_seen", len(ports)),
		zap.Int("candidates", len(devices)),
	)
	return devices, nil
}

// classifyPort maps a tty path to a connection type. RFCOMM ttys are
// Bluetooth bindings; USB and plain serial adapters count as serial.
func classifyPort(port string) (model.ConnectionType, bool) {
	switch {
	case strings.Contains(port, "rfcomm"):
		return model.ConnectionTypeBluetooth, true
	case strings.Contains(port, "ttyUSB"), strings.Contains(port, "ttyACM"):
		return model.ConnectionTypeSerial, true
	case strings.Contains(port, "ttyS"):
		return model.ConnectionTypeSerial, true
	default:
		return "", false
	}
}
