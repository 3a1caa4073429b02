// internal/service/print_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pos-service/internal/config"
	"pos-service/internal/discovery"
	"pos-service/internal/model"
	"pos-service/internal/printer"
	"pos-service/internal/repository"
	"pos-service/internal/utils"
)

// EventPublisher pushes printer events out to connected clients.
type EventPublisher interface {
	PublishPrinterEvent(eventType string, data map[string]interface{})
}

// PrintService orchestrates document printing: it resolves the sale and
// its related records, classifies original versus reprint from the
// stored counters, renders the directives and drives the transport.
type PrintService struct {
	transport    *printer.Transport
	formatter    *printer.DocumentFormatter
	scanner      *discovery.PortScanner
	saleRepo     repository.SaleRepository
	customerRepo repository.CustomerRepository
	settingsRepo repository.SettingsRepository
	config       *config.Config
	logger       *utils.ServiceLogger
	publisher    EventPublisher
}

// NewPrintService creates a new print service instance
func NewPrintService(
	transport *printer.Transport,
	formatter *printer.DocumentFormatter,
	scanner *discovery.PortScanner,
	saleRepo repository.SaleRepository,
	customerRepo repository.CustomerRepository,
	settingsRepo repository.SettingsRepository,
	config *config.Config,
	logger *zap.Logger,
) *PrintService {
	return &PrintService{
		transport:    transport,
		formatter:    formatter,
		scanner:      scanner,
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		settingsRepo: settingsRepo,
		config:       config,
		logger:       utils.NewServiceLogger(logger, "print-service"),
	}
}

// SetEventPublisher wires the outbound event channel. Handlers are
// constructed after services, so this is set late.
func (ps *PrintService) SetEventPublisher(publisher EventPublisher) {
	ps.publisher = publisher
}

// ConnectRequest selects the printer to connect to. An empty address
// falls back to the printer configured in business settings.
type ConnectRequest struct {
	Address string               `json:"address"`
	Name    string               `json:"name"`
	Type    model.ConnectionType `json:"type"`
}

// Connect opens the printer connection
func (ps *PrintService) Connect(ctx context.Context, req *ConnectRequest) (model.ConnectionState, error) {
	device := model.PairedDevice{
		Name:    req.Name,
		Address: strings.TrimSpace(req.Address),
		Type:    req.Type,
	}
	if device.Type == "" {
		device.Type = model.ConnectionTypeBluetooth
	}

	if device.Address == "" {
		settings, err := ps.settingsRepo.Get(ctx)
		if err != nil {
			return ps.transport.State(), fmt.Errorf("failed to load settings: %w", err)
		}
		if strings.TrimSpace(settings.PrinterAddress) == "" {
			return ps.transport.State(), fmt.Errorf("no printer address given and none configured in settings")
		}
		device.Address = settings.PrinterAddress
		if device.Name == "" {
			device.Name = settings.PrinterName
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, ps.config.Printer.ConnectTimeout)
	defer cancel()

	if err := ps.transport.Connect(connectCtx, device, ps.connectionConfig(device)); err != nil {
		ps.publish("printer.error", map[string]interface{}{
			"address": device.Address,
			"error":   err.Error(),
		})
		return ps.transport.State(), err
	}

	ps.publish("printer.connected", map[string]interface{}{
		"address": device.Address,
		"name":    device.Name,
	})
	return ps.transport.State(), nil
}

// Disconnect closes the printer connection
func (ps *PrintService) Disconnect() model.ConnectionState {
	ps.transport.Disconnect()
	ps.publish("printer.disconnected", map[string]interface{}{})
	return ps.transport.State()
}

// Status returns the current connection state
func (ps *PrintService) Status() model.ConnectionState {
	return ps.transport.State()
}

// Devices lists printer candidates found on the host
func (ps *PrintService) Devices(ctx context.Context) ([]model.PairedDevice, error) {
	return ps.scanner.Scan(ctx)
}

// PrintTestPage prints a short self-test page
func (ps *PrintService) PrintTestPage(ctx context.Context) *model.PrintResult {
	if !ps.transport.IsConnected() {
		return &model.PrintResult{Success: false, Message: "Not connected"}
	}

	if err := ps.transport.PrintTestPage(ctx); err != nil {
		return &model.PrintResult{Success: false, Message: fmt.Sprintf("Print failed: %s", err)}
	}
	if err := ps.transport.WriteRaw(ctx, printer.ESC_POS_COMMANDS.CUT_PARTIAL); err != nil {
		return &model.PrintResult{Success: false, Message: fmt.Sprintf("Print failed: %s", err)}
	}

	return &model.PrintResult{Success: true, Message: "Test page printed"}
}

// PrintPlainText prints free text, wrapped at the paper width
func (ps *PrintService) PrintPlainText(ctx context.Context, content string) *model.PrintResult {
	if !ps.transport.IsConnected() {
		return &model.PrintResult{Success: false, Message: "Not connected"}
	}

	directives := ps.formatter.FormatPlainText(content)
	if err := ps.executeDirectives(ctx, directives); err != nil {
		return &model.PrintResult{Success: false, Message: fmt.Sprintf("Print failed: %s", err)}
	}
	if err := ps.transport.WriteRaw(ctx, printer.ESC_POS_COMMANDS.CUT_PARTIAL); err != nil {
		return &model.PrintResult{Success: false, Message: fmt.Sprintf("Print failed: %s", err)}
	}

	return &model.PrintResult{Success: true, Message: "Text printed"}
}

// PrintSaleDocument prints a receipt or delivery authorization for the
// sale. The first print of each document type is the original; any
// print after that carries the copy marker. The counter only moves
// after the document made it to paper.
func (ps *PrintService) PrintSaleDocument(ctx context.Context, saleID uuid.UUID, docType model.DocumentType) (*model.PrintResult, error) {
	sale, err := ps.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	items, err := ps.saleRepo.GetItems(ctx, saleID)
	if err != nil {
		return nil, err
	}

	delivery, err := ps.saleRepo.GetDeliveryInfo(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if docType == model.DocumentTypeDeliveryAuth && delivery == nil {
		return nil, fmt.Errorf("sale %s has no delivery information", sale.DocumentNumber)
	}

	var customer *model.Customer
	if sale.CustomerID != nil {
		customer, err = ps.customerRepo.GetByID(ctx, *sale.CustomerID)
		if err != nil {
			// A deleted customer should not block printing
			ps.logger.Warn("Customer lookup failed for print", zap.Error(err))
			customer = nil
		}
	}

	settings, err := ps.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	isReprint := sale.PrintCount(docType) > 0
	doc := &printer.SaleDocument{
		Sale:      sale,
		Items:     items,
		Customer:  customer,
		Delivery:  delivery,
		Settings:  settings,
		IsReprint: isReprint,
	}

	var directives []printer.Directive
	if docType == model.DocumentTypeDeliveryAuth {
		directives = ps.formatter.FormatDeliveryAuth(doc)
	} else {
		directives = ps.formatter.FormatReceipt(doc)
	}

	if !ps.transport.IsConnected() {
		return &model.PrintResult{Success: false, Message: "Not connected"}, nil
	}

	state := ps.transport.State()
	printerLogger := utils.NewPrinterLogger(ps.logger.Logger, state.DeviceAddress, string(model.ConnectionTypeBluetooth))

	start := time.Now()
	printErr := ps.executeDirectives(ctx, directives)
	if printErr == nil {
		printErr = ps.transport.WriteRaw(ctx, printer.ESC_POS_COMMANDS.CUT_PARTIAL)
	}
	printerLogger.LogPrint(string(docType), sale.DocumentNumber, isReprint, time.Since(start), printErr)

	if printErr != nil {
		ps.publish("print.failed", map[string]interface{}{
			"document_number": sale.DocumentNumber,
			"doc_type":        string(docType),
			"error":           printErr.Error(),
		})
		return &model.PrintResult{Success: false, Message: fmt.Sprintf("Print failed: %s", printErr)}, nil
	}

	if _, err := ps.saleRepo.IncrementPrintCount(ctx, saleID, docType); err != nil {
		// The paper is already out; surface the counter problem in logs only
		ps.logger.Error("Failed to increment print count",
			zap.Error(err),
			zap.String("document_number", sale.DocumentNumber),
		)
	}

	ps.publish("print.completed", map[string]interface{}{
		"document_number": sale.DocumentNumber,
		"doc_type":        string(docType),
		"reprint":         isReprint,
	})

	message := fmt.Sprintf("%s %s printed", docType, sale.DocumentNumber)
	if isReprint {
		message = fmt.Sprintf("%s %s reprinted", docType, sale.DocumentNumber)
	}
	return &model.PrintResult{Success: true, Message: message}, nil
}

// executeDirectives drives the transport through the directive list in
// order, stopping at the first failure.
func (ps *PrintService) executeDirectives(ctx context.Context, directives []printer.Directive) error {
	for _, d := range directives {
		var err error
		switch d.Kind {
		case printer.DirectiveRaw:
			err = ps.transport.WriteRaw(ctx, d.Raw)
		case printer.DirectiveText:
			err = ps.transport.PrintText(ctx, d.Text, d.Style)
		case printer.DirectiveTwoColumns:
			err = ps.transport.PrintTwoColumns(ctx, d.Left, d.Right)
		case printer.DirectiveFeed:
			err = ps.transport.FeedLines(ctx, d.Lines)
		default:
			err = fmt.Errorf("unknown directive kind: %d", d.Kind)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// connectionConfig builds the protocol configuration for the device
// from the configured channel defaults.
func (ps *PrintService) connectionConfig(device model.PairedDevice) map[string]interface{} {
	switch device.Type {
	case model.ConnectionTypeBluetooth:
		cfg := map[string]interface{}{
			"mac_address": device.Address,
			"baud_rate":   ps.config.Printer.Defaults.Bluetooth.BaudRate,
			"timeout":     ps.config.Printer.Defaults.Bluetooth.ConnectTimeout.String(),
		}
		if path := ps.config.Printer.Defaults.Bluetooth.DevicePath; path != "" {
			cfg["device_path"] = path
		}
		return cfg
	case model.ConnectionTypeSerial:
		return map[string]interface{}{
			"port":      device.Address,
			"baud_rate": ps.config.Printer.Defaults.Serial.BaudRate,
			"data_bits": ps.config.Printer.Defaults.Serial.DataBits,
			"stop_bits": ps.config.Printer.Defaults.Serial.StopBits,
			"parity":    ps.config.Printer.Defaults.Serial.Parity,
			"timeout":   ps.config.Printer.Defaults.Serial.Timeout.String(),
		}
	case model.ConnectionTypeTCP:
		return map[string]interface{}{
			"host":            device.Address,
			"port":            ps.config.Printer.Defaults.TCP.Port,
			"connect_timeout": ps.config.Printer.Defaults.TCP.ConnectTimeout.String(),
			"read_timeout":    ps.config.Printer.Defaults.TCP.ReadTimeout.String(),
			"write_timeout":   ps.config.Printer.Defaults.TCP.WriteTimeout.String(),
			"keep_alive":      ps.config.Printer.Defaults.TCP.KeepAlive,
		}
	default:
		return map[string]interface{}{}
	}
}

// publish pushes an event when a publisher is wired
func (ps *PrintService) publish(eventType string, data map[string]interface{}) {
	if ps.publisher != nil {
		ps.publisher.PublishPrinterEvent(eventType, data)
	}
}
