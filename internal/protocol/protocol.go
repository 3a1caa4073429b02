// internal/protocol/protocol.go
package protocol

import (
	"context"
	"time"

	"pos-service/internal/model"
)

// DeviceProtocol represents a communication channel to a printer
type DeviceProtocol interface {
	// Connection lifecycle
	Open(ctx context.Context) error
	Close() error
	IsOpen() bool

	// Data communication
	Write(ctx context.Context, data []byte) error
	Read(ctx context.Context, maxBytes int) ([]byte, error)

	// Protocol information
	GetProtocolType() model.ConnectionType

	// Health and diagnostics
	Ping(ctx context.Context) error
}

// SPPServiceUUID is the Bluetooth Serial Port Profile service UUID used
// when binding an RFCOMM channel to the printer.
const SPPServiceUUID = "00001101-0000-1000-8000-00805F9B34FB"

// statusRequest is the ESC/POS DLE EOT 1 real-time transmit-status
// request used to ping a printer.
var statusRequest = []byte{0x10, 0x04, 0x01}

// ProtocolStats provides protocol-level statistics
type ProtocolStats struct {
	BytesWritten   int64         `json:"bytes_written"`
	BytesRead      int64         `json:"bytes_read"`
	OperationCount int64         `json:"operation_count"`
	ErrorCount     int64         `json:"error_count"`
	LastActivity   time.Time     `json:"last_activity"`
	AverageLatency time.Duration `json:"average_latency"`
	IsConnected    bool          `json:"is_connected"`
}

// SerialConfig represents serial connection configuration
type SerialConfig struct {
	Port     string        `json:"port"`
	BaudRate int           `json:"baud_rate"`
	DataBits int           `json:"data_bits"`
	StopBits int           `json:"stop_bits"`
	Parity   string        `json:"parity"`
	Timeout  time.Duration `json:"timeout"`
}

// USBConfig represents USB connection configuration
type USBConfig struct {
	VendorID     string        `json:"vendor_id"`
	ProductID    string        `json:"product_id"`
	Interface    int           `json:"interface"`
	Endpoint     int           `json:"endpoint"`
	SerialNumber string        `json:"serial_number"`
	Timeout      time.Duration `json:"timeout"`
}

// TCPConfig represents TCP connection configuration
type TCPConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	SSL          bool          `json:"ssl"`
	KeepAlive    bool          `json:"keep_alive"`
	BufferSize   int           `json:"buffer_size"`
	Timeout      time.Duration `json:"timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// BluetoothConfig represents Bluetooth SPP connection configuration.
// The MAC address must already be paired and bound to an RFCOMM tty;
// DevicePath overrides the rfcomm device lookup when set.
type BluetoothConfig struct {
	MACAddress  string        `json:"mac_address"`
	ServiceUUID string        `json:"service_uuid"`
	DevicePath  string        `json:"device_path"`
	BaudRate    int           `json:"baud_rate"`
	Timeout     time.Duration `json:"timeout"`
}
