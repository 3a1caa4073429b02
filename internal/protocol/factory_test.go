// internal/protocol/factory_test.go
package protocol

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"pos-service/internal/model"
)

func TestCreateBluetoothProtocolDefaults(t *testing.T) {
	proto, err := CreateProtocol(model.ConnectionTypeBluetooth, map[string]interface{}{
		"mac_address": "AA:BB:CC:DD:EE:FF",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("CreateProtocol failed: %v", err)
	}

	bc, ok := proto.(*BluetoothConnection)
	if !ok {
		t.Fatalf("protocol type = %T, want *BluetoothConnection", proto)
	}

	if bc.config.ServiceUUID != SPPServiceUUID {
		t.Errorf("service uuid = %q, want %q", bc.config.ServiceUUID, SPPServiceUUID)
	}
	if bc.config.BaudRate != 9600 {
		t.Errorf("baud rate = %d, want 9600", bc.config.BaudRate)
	}
	if proto.GetProtocolType() != model.ConnectionTypeBluetooth {
		t.Errorf("protocol type = %s", proto.GetProtocolType())
	}
}

func TestCreateBluetoothProtocolOverrides(t *testing.T) {
	proto, err := CreateProtocol(model.ConnectionTypeBluetooth, map[string]interface{}{
		"mac_address": "AA:BB:CC:DD:EE:FF",
		"device_path": "/dev/rfcomm3",
		"baud_rate":   115200,
		"timeout":     "20s",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("CreateProtocol failed: %v", err)
	}

	bc := proto.(*BluetoothConnection)
	if bc.config.DevicePath != "/dev/rfcomm3" {
		t.Errorf("device path = %q", bc.config.DevicePath)
	}
	if bc.config.BaudRate != 115200 {
		t.Errorf("baud rate = %d, want 115200", bc.config.BaudRate)
	}
	if bc.config.Timeout != 20*time.Second {
		t.Errorf("timeout = %s, want 20s", bc.config.Timeout)
	}
}

func TestCreateBluetoothProtocolRequiresMAC(t *testing.T) {
	_, err := CreateProtocol(model.ConnectionTypeBluetooth, map[string]interface{}{}, zap.NewNop())
	if err == nil {
		t.Fatal("CreateProtocol succeeded without mac_address")
	}
}

func TestCreateTCPProtocolTimeouts(t *testing.T) {
	proto, err := CreateProtocol(model.ConnectionTypeTCP, map[string]interface{}{
		"host":            "192.168.1.50",
		"connect_timeout": "7s",
		"read_timeout":    "11s",
		"write_timeout":   "13s",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("CreateProtocol failed: %v", err)
	}

	tc, ok := proto.(*TCPConnection)
	if !ok {
		t.Fatalf("protocol type = %T, want *TCPConnection", proto)
	}

	if tc.config.Port != 9100 {
		t.Errorf("port = %d, want 9100", tc.config.Port)
	}
	if tc.config.Timeout != 7*time.Second {
		t.Errorf("connect timeout = %s, want 7s", tc.config.Timeout)
	}
	if tc.config.ReadTimeout != 11*time.Second {
		t.Errorf("read timeout = %s, want 11s", tc.config.ReadTimeout)
	}
	if tc.config.WriteTimeout != 13*time.Second {
		t.Errorf("write timeout = %s, want 13s", tc.config.WriteTimeout)
	}
}

func TestCreateTCPProtocolRequiresHost(t *testing.T) {
	_, err := CreateProtocol(model.ConnectionTypeTCP, map[string]interface{}{}, zap.NewNop())
	if err == nil {
		t.Fatal("CreateProtocol succeeded without host")
	}
}

func TestCreateProtocolUnsupportedType(t *testing.T) {
	_, err := CreateProtocol(model.ConnectionType("parallel"), map[string]interface{}{}, zap.NewNop())
	if err == nil {
		t.Fatal("CreateProtocol accepted an unsupported type")
	}
}
