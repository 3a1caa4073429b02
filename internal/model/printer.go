// internal/model/printer.go
package model

import "time"

// ConnectionType identifies the physical channel to a printer
type ConnectionType string

const (
	ConnectionTypeBluetooth ConnectionType = "bluetooth"
	ConnectionTypeSerial    ConnectionType = "serial"
	ConnectionTypeTCP       ConnectionType = "tcp"
	ConnectionTypeUSB       ConnectionType = "usb"
)

// ConnectionStatus is the printer connection state machine value
type ConnectionStatus string

const (
	ConnectionStatusDisconnected ConnectionStatus = "disconnected"
	ConnectionStatusConnecting   ConnectionStatus = "connecting"
	ConnectionStatusConnected    ConnectionStatus = "connected"
)

// ConnectionState is a snapshot of the transport's current state.
type ConnectionState struct {
	Status        ConnectionStatus `json:"status"`
	DeviceAddress string           `json:"device_address,omitempty"`
	DeviceName    string           `json:"device_name,omitempty"`
	LastError     string           `json:"last_error,omitempty"`
	ConnectedAt   *time.Time       `json:"connected_at,omitempty"`
}

// IsConnected reports whether the state represents an open channel.
func (cs ConnectionState) IsConnected() bool {
	return cs.Status == ConnectionStatusConnected
}

// PrintResult is the outcome of one print operation, never a panic.
type PrintResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PairedDevice is a candidate printer found by discovery or settings.
type PairedDevice struct {
	Name    string         `json:"name"`
	Address string         `json:"address"`
	Type    ConnectionType `json:"type"`
}
