// internal/printer/formatter_test.go
package printer

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pos-service/internal/model"
)

func TestFormatTwoColumns(t *testing.T) {
	tests := []struct {
		name  string
		left  string
		right string
	}{
		{"short columns", "Subtotal:", "$100.00"},
		{"empty left", "", "$5.00"},
		{"empty right", "Line Total:", ""},
		{"left needs truncation", strings.Repeat("x", 40), "$1,234.56"},
		{"exact fit", strings.Repeat("a", 24), "$12.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTwoColumns(tt.left, tt.right, 32)
			if n := utf8.RuneCountInString(got); n != 32 {
				t.Errorf("FormatTwoColumns(%q, %q) width = %d, want 32 (%q)", tt.left, tt.right, n, got)
			}
			if !strings.HasSuffix(got, tt.right) {
				t.Errorf("FormatTwoColumns(%q, %q) = %q, right column lost", tt.left, tt.right, got)
			}
		})
	}
}

func TestFormatTwoColumnsTruncationMargin(t *testing.T) {
	left := strings.Repeat("x", 40)
	right := "$9.99"
	got := FormatTwoColumns(left, right, 32)

	// Left column is cut to leave exactly one space before the right
	// column.
	wantLeft := left[:32-len(right)-1]
	if !strings.HasPrefix(got, wantLeft+" ") {
		t.Errorf("truncated row = %q, want prefix %q", got, wantLeft+" ")
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{1500, "1500"},
		{0, "0"},
		{1.5, "1.50"},
		{0.333, "0.33"},
		{2.0, "2"},
		{1234.56, "1234.56"},
	}

	for _, tt := range tests {
		if got := FormatQuantity(tt.input); got != tt.want {
			t.Errorf("FormatQuantity(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTaxPercent(t *testing.T) {
	tests := []struct {
		name     string
		tax      string
		subtotal string
		want     int64
	}{
		{"exact percent", "5", "100", 5},
		{"truncates toward zero", "7.5", "100", 7},
		{"truncates repeating", "10", "300", 3},
		{"zero subtotal", "5", "0", 0},
		{"zero tax", "0", "100", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := decimal.RequireFromString(tt.tax)
			subtotal := decimal.RequireFromString(tt.subtotal)
			if got := TaxPercent(tax, subtotal); got != tt.want {
				t.Errorf("TaxPercent(%s, %s) = %d, want %d", tt.tax, tt.subtotal, got, tt.want)
			}
		})
	}
}

func testSettings() *model.BusinessSettings {
	return &model.BusinessSettings{
		ID:               1,
		BusinessName:     "Dromex Materials",
		BusinessPhone:    "+1 555 0100",
		BusinessLocation: "Main Yard",
		ReceiptFooter:    "Thank you!",
		Currency:         "USD",
		ExchangeRate:     1.0,
	}
}

func testSale(docType model.DocumentType) *model.Sale {
	return &model.Sale{
		ID:             uuid.New(),
		DocType:        docType,
		DocumentNumber: "RCP-000042",
		IssuedAt:       time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Subtotal:       decimal.RequireFromString("100.00"),
		Tax:            decimal.RequireFromString("5.00"),
		Discount:       decimal.Zero,
		Total:          decimal.RequireFromString("105.00"),
		Status:         model.SaleStatusPaid,
	}
}

func textLines(directives []Directive) []string {
	var lines []string
	for _, d := range directives {
		switch d.Kind {
		case DirectiveText:
			lines = append(lines, d.Text)
		case DirectiveTwoColumns:
			lines = append(lines, FormatTwoColumns(d.Left, d.Right, 32))
		}
	}
	return lines
}

func containsLine(lines []string, substr string) bool {
	for _, line := range lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func TestFormatReceipt(t *testing.T) {
	f := NewDocumentFormatter(32)
	doc := &SaleDocument{
		Sale: testSale(model.DocumentTypeReceipt),
		Items: []model.SaleItem{
			{
				ProductName: "Washed Sand",
				Quantity:    1500,
				Unit:        "kg",
				UnitPrice:   decimal.RequireFromString("0.05"),
				Total:       decimal.RequireFromString("75.00"),
			},
		},
		Settings: testSettings(),
	}

	lines := textLines(f.FormatReceipt(doc))

	for _, want := range []string{
		"Dromex Materials",
		"*** ORIGINAL ***",
		"RECEIPT",
		"No: RCP-000042",
		"15/03/2026 14:30",
		"Customer: Walk-in",
		"Washed Sand",
		"1500 kg",
		"$0.05/kg",
		"Line Total:",
		"$75.00",
		"Subtotal:",
		"$100.00",
		"Tax (5%):",
		"TOTAL: $105.00 USD",
		"Payment: PAID",
		"Thank you!",
	} {
		if !containsLine(lines, want) {
			t.Errorf("receipt missing %q in:\n%s", want, strings.Join(lines, "\n"))
		}
	}

	// Zero discount and an exchange rate of 1.0 are omitted.
	if containsLine(lines, "Discount:") {
		t.Error("receipt shows a discount line for a zero discount")
	}
	if containsLine(lines, "Exchange Rate:") {
		t.Error("receipt shows an exchange rate of 1.0")
	}
}

func TestFormatReceiptReprint(t *testing.T) {
	f := NewDocumentFormatter(32)
	doc := &SaleDocument{
		Sale:      testSale(model.DocumentTypeReceipt),
		Settings:  testSettings(),
		IsReprint: true,
	}

	lines := textLines(f.FormatReceipt(doc))
	if !containsLine(lines, "*** COPY / REPRINT ***") {
		t.Error("reprint missing copy marker")
	}
	if containsLine(lines, "*** ORIGINAL ***") {
		t.Error("reprint still marked original")
	}
}

func TestFormatReceiptDiscountAndRate(t *testing.T) {
	f := NewDocumentFormatter(32)
	sale := testSale(model.DocumentTypeReceipt)
	sale.Discount = decimal.RequireFromString("10.00")
	settings := testSettings()
	settings.ExchangeRate = 1.5

	doc := &SaleDocument{Sale: sale, Settings: settings}
	lines := textLines(f.FormatReceipt(doc))

	if !containsLine(lines, "Discount:") || !containsLine(lines, "-$10.00") {
		t.Error("receipt missing discount line")
	}
	if !containsLine(lines, "Exchange Rate: 1.5") {
		t.Error("receipt missing exchange rate line")
	}
}

func TestFormatReceiptConvertedItem(t *testing.T) {
	f := NewDocumentFormatter(32)
	convertedQty := 1.2
	convertedUnit := "m³"
	doc := &SaleDocument{
		Sale: testSale(model.DocumentTypeReceipt),
		Items: []model.SaleItem{
			{
				ProductName:       "Gravel",
				Quantity:          1800,
				Unit:              "kg",
				UnitPrice:         decimal.RequireFromString("0.05"),
				Total:             decimal.RequireFromString("90.00"),
				ConvertedQuantity: &convertedQty,
				ConvertedUnit:     &convertedUnit,
			},
		},
		Settings: testSettings(),
	}

	lines := textLines(f.FormatReceipt(doc))

	// The row shows the converted quantity with a normalized unit and
	// the price per converted unit (90.00 / 1.2 = 75.00).
	if !containsLine(lines, "1.20 m3") {
		t.Errorf("receipt missing converted quantity in:\n%s", strings.Join(lines, "\n"))
	}
	if !containsLine(lines, "$75.00/m3") {
		t.Errorf("receipt missing per-converted-unit price in:\n%s", strings.Join(lines, "\n"))
	}
}

func TestFormatDeliveryAuth(t *testing.T) {
	f := NewDocumentFormatter(32)
	sale := testSale(model.DocumentTypeDeliveryAuth)
	sale.DocumentNumber = "DLV-000007"

	doc := &SaleDocument{
		Sale: sale,
		Items: []model.SaleItem{
			{ProductName: "Crushed Stone", Quantity: 1500, Unit: "kg"},
		},
		Delivery: &model.DeliveryInfo{
			DriverName:  "Sam Ortiz",
			TruckPlate:  "TRK-991",
			EmptyWeight: 8000,
			FullWeight:  9500,
		},
		Settings: testSettings(),
	}

	lines := textLines(f.FormatDeliveryAuth(doc))

	for _, want := range []string{
		"DELIVERY AUTHORIZATION",
		"No: DLV-000007",
		"MATERIALS:",
		"Crushed Stone",
		"TRANSPORT:",
		"Sam Ortiz",
		"TRK-991",
		"WEIGHTS:",
		"Driver Signature:",
		"Receiver Signature:",
	} {
		if !containsLine(lines, want) {
			t.Errorf("delivery auth missing %q in:\n%s", want, strings.Join(lines, "\n"))
		}
	}

	if !containsLine(lines, "NET WEIGHT:") || !containsLine(lines, "1500 kg") {
		t.Errorf("delivery auth missing 1500 kg net weight in:\n%s", strings.Join(lines, "\n"))
	}

	// Delivery authorizations carry no prices.
	if containsLine(lines, "$") {
		t.Error("delivery auth shows a price")
	}
}

func TestFormatPlainTextWrapsLongLines(t *testing.T) {
	f := NewDocumentFormatter(32)
	content := strings.Repeat("a", 70) + "\nshort"

	var lines []string
	for _, d := range f.FormatPlainText(content) {
		if d.Kind == DirectiveText {
			lines = append(lines, d.Text)
		}
	}

	want := []string{
		strings.Repeat("a", 32),
		strings.Repeat("a", 32),
		strings.Repeat("a", 6),
		"short",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestDirectiveOrderStartsWithInit(t *testing.T) {
	f := NewDocumentFormatter(32)
	doc := &SaleDocument{Sale: testSale(model.DocumentTypeReceipt), Settings: testSettings()}

	for name, directives := range map[string][]Directive{
		"receipt":  f.FormatReceipt(doc),
		"delivery": f.FormatDeliveryAuth(doc),
		"plain":    f.FormatPlainText("hi"),
	} {
		if len(directives) == 0 || directives[0].Kind != DirectiveRaw {
			t.Errorf("%s document does not start with a raw init directive", name)
			continue
		}
		if string(directives[0].Raw) != string(ESC_POS_COMMANDS.INITIALIZE) {
			t.Errorf("%s document init bytes = %v", name, directives[0].Raw)
		}
	}
}
