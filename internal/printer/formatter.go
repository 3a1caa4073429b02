// internal/printer/formatter.go
package printer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"pos-service/internal/model"
)

// DirectiveKind distinguishes the directive variants a formatter emits
type DirectiveKind int

const (
	DirectiveText DirectiveKind = iota
	DirectiveTwoColumns
	DirectiveRaw
	DirectiveFeed
)

// TextStyle carries the ESC/POS styling for one text directive.
type TextStyle struct {
	Bold       bool
	Centered   bool
	DoubleSize bool
}

// Directive is one ordered printing instruction. The transport executes
// directives strictly in slice order.
type Directive struct {
	Kind  DirectiveKind
	Text  string
	Left  string
	Right string
	Style TextStyle
	Raw   []byte
	Lines int
}

// SaleDocument bundles everything the formatter needs to render one
// sale document.
type SaleDocument struct {
	Sale      *model.Sale
	Items     []model.SaleItem
	Customer  *model.Customer
	Delivery  *model.DeliveryInfo
	Settings  *model.BusinessSettings
	IsReprint bool
}

// DocumentFormatter renders sale documents into printing directives for
// a fixed-width thermal printer. Layout targets 58mm paper, 32 chars
// per line.
type DocumentFormatter struct {
	width int
}

// NewDocumentFormatter creates a formatter for the given paper width in
// characters.
func NewDocumentFormatter(width int) *DocumentFormatter {
	if width <= 0 {
		width = PaperWidth58
	}
	return &DocumentFormatter{width: width}
}

// Width returns the formatter's line width in characters.
func (f *DocumentFormatter) Width() int {
	return f.width
}

// FormatReceipt renders a sale receipt with prices.
func (f *DocumentFormatter) FormatReceipt(doc *SaleDocument) []Directive {
	var d []Directive

	d = append(d, raw(ESC_POS_COMMANDS.INITIALIZE))
	d = append(d, f.businessHeader(doc.Settings)...)
	d = append(d, f.copyMarker(doc.IsReprint)...)
	d = append(d, f.documentInfo(doc.Sale, "RECEIPT")...)

	// Customer info
	if doc.Customer != nil {
		d = append(d, text(fmt.Sprintf("Customer: %s", ShapeBidiText(doc.Customer.Name)), TextStyle{}))
		if doc.Customer.Phone != nil && strings.TrimSpace(*doc.Customer.Phone) != "" {
			d = append(d, text(fmt.Sprintf("Phone: %s", *doc.Customer.Phone), TextStyle{}))
		}
	} else {
		d = append(d, text("Customer: Walk-in", TextStyle{}))
	}
	d = append(d, f.dashLine())

	// Items, showing the converted quantity when a conversion applied
	for _, item := range doc.Items {
		d = append(d, f.itemRows(&item)...)
	}
	d = append(d, f.separator())

	// Totals
	d = append(d, twoColumns("Subtotal:", "$"+FormatMoney(doc.Sale.Subtotal)))
	if doc.Sale.Discount.IsPositive() {
		d = append(d, twoColumns("Discount:", "-$"+FormatMoney(doc.Sale.Discount)))
	}
	if doc.Sale.Tax.IsPositive() {
		label := fmt.Sprintf("Tax (%d%%):", TaxPercent(doc.Sale.Tax, doc.Sale.Subtotal))
		d = append(d, twoColumns(label, "$"+FormatMoney(doc.Sale.Tax)))
	}
	d = append(d, f.dashLine())
	d = append(d, text(fmt.Sprintf("TOTAL: $%s %s", FormatMoney(doc.Sale.Total), doc.Settings.Currency),
		TextStyle{Bold: true, Centered: true}))

	if doc.Settings.ExchangeRate > 0 && doc.Settings.ExchangeRate != 1.0 {
		rate := strconv.FormatFloat(doc.Settings.ExchangeRate, 'f', -1, 64)
		d = append(d, text(fmt.Sprintf("Exchange Rate: %s", rate), TextStyle{Centered: true}))
	}

	d = append(d, f.separator())

	// Payment status
	d = append(d, text(fmt.Sprintf("Payment: %s", doc.Sale.Status), TextStyle{Centered: true}))

	// Footer
	d = append(d, text("", TextStyle{}))
	if footer := strings.TrimSpace(doc.Settings.ReceiptFooter); footer != "" {
		d = append(d, text(ShapeBidiText(footer), TextStyle{Centered: true}))
	}
	d = append(d, feed(3))

	return d
}

// FormatDeliveryAuth renders a delivery authorization, without prices.
// Item quantities are net kilograms of material to release.
func (f *DocumentFormatter) FormatDeliveryAuth(doc *SaleDocument) []Directive {
	var d []Directive

	d = append(d, raw(ESC_POS_COMMANDS.INITIALIZE))
	d = append(d, f.businessHeader(doc.Settings)...)
	d = append(d, f.copyMarker(doc.IsReprint)...)
	d = append(d, f.documentInfo(doc.Sale, "DELIVERY AUTHORIZATION")...)

	if doc.Customer != nil {
		d = append(d, text(fmt.Sprintf("Customer: %s", ShapeBidiText(doc.Customer.Name)), TextStyle{}))
		if doc.Customer.Phone != nil && strings.TrimSpace(*doc.Customer.Phone) != "" {
			d = append(d, text(fmt.Sprintf("Phone: %s", *doc.Customer.Phone), TextStyle{}))
		}
	}

	if doc.Delivery != nil && strings.TrimSpace(doc.Delivery.DeliveryAddress) != "" {
		d = append(d, text("Deliver to:", TextStyle{}))
		d = append(d, text(ShapeBidiText(doc.Delivery.DeliveryAddress), TextStyle{}))
	}
	d = append(d, f.dashLine())

	// Materials, no prices
	d = append(d, text("MATERIALS:", TextStyle{Bold: true}))
	for _, item := range doc.Items {
		d = append(d, text(ShapeBidiText(item.ProductName), TextStyle{Bold: true}))
		d = append(d, twoColumns("  Quantity:", fmt.Sprintf("%s kg", FormatQuantity(item.Quantity))))
		if item.HasConversion() {
			d = append(d, twoColumns("  Converted:", fmt.Sprintf("%s %s",
				FormatQuantity(*item.ConvertedQuantity),
				NormalizeUnit(*item.ConvertedUnit))))
		}
	}
	d = append(d, f.dashLine())

	// Driver and truck
	d = append(d, text("TRANSPORT:", TextStyle{Bold: true}))
	if doc.Delivery != nil {
		if strings.TrimSpace(doc.Delivery.DriverName) != "" {
			d = append(d, twoColumns("Driver:", ShapeBidiText(doc.Delivery.DriverName)))
		}
		if strings.TrimSpace(doc.Delivery.TruckPlate) != "" {
			d = append(d, twoColumns("Truck:", doc.Delivery.TruckPlate))
		}
	}
	d = append(d, f.dashLine())

	// Weights
	d = append(d, text("WEIGHTS:", TextStyle{Bold: true}))
	if doc.Delivery != nil {
		d = append(d, twoColumns("Empty:", fmt.Sprintf("%s kg", FormatQuantity(doc.Delivery.EmptyWeight))))
		d = append(d, twoColumns("Full:", fmt.Sprintf("%s kg", FormatQuantity(doc.Delivery.FullWeight))))
		d = append(d, f.dashLine())
		d = append(d, twoColumns("NET WEIGHT:", fmt.Sprintf("%s kg", FormatQuantity(doc.Delivery.NetWeight()))))
	}
	d = append(d, f.separator())

	// Signature lines
	d = append(d, text("", TextStyle{}))
	d = append(d, text("Driver Signature:", TextStyle{Centered: true}))
	d = append(d, feed(2))
	d = append(d, text(strings.Repeat("_", f.width), TextStyle{Centered: true}))
	d = append(d, text("", TextStyle{}))
	d = append(d, text("Receiver Signature:", TextStyle{Centered: true}))
	d = append(d, feed(2))
	d = append(d, text(strings.Repeat("_", f.width), TextStyle{Centered: true}))
	d = append(d, feed(3))

	return d
}

// FormatPlainText renders free text, hard-wrapped at the paper width,
// with a trailing feed.
func (f *DocumentFormatter) FormatPlainText(content string) []Directive {
	d := []Directive{raw(ESC_POS_COMMANDS.INITIALIZE)}
	for _, line := range strings.Split(content, "\n") {
		runes := []rune(line)
		if len(runes) == 0 {
			d = append(d, text("", TextStyle{}))
			continue
		}
		for len(runes) > 0 {
			n := len(runes)
			if n > f.width {
				n = f.width
			}
			d = append(d, text(string(runes[:n]), TextStyle{}))
			runes = runes[n:]
		}
	}
	d = append(d, feed(3))
	return d
}

// businessHeader emits the business name/phone/location block between
// separator lines.
func (f *DocumentFormatter) businessHeader(settings *model.BusinessSettings) []Directive {
	var d []Directive
	d = append(d, f.separator())
	d = append(d, text(ShapeBidiText(settings.BusinessName), TextStyle{Bold: true, Centered: true, DoubleSize: true}))
	if phone := strings.TrimSpace(settings.BusinessPhone); phone != "" {
		d = append(d, text(phone, TextStyle{Centered: true}))
	}
	if loc := strings.TrimSpace(settings.BusinessLocation); loc != "" {
		d = append(d, text(ShapeBidiText(loc), TextStyle{Centered: true}))
	}
	d = append(d, f.separator())
	return d
}

// copyMarker emits the ORIGINAL or COPY banner.
func (f *DocumentFormatter) copyMarker(isReprint bool) []Directive {
	marker := "*** ORIGINAL ***"
	if isReprint {
		marker = "*** COPY / REPRINT ***"
	}
	return []Directive{
		text(marker, TextStyle{Bold: true, Centered: true}),
		text("", TextStyle{}),
	}
}

// documentInfo emits the title, document number and issue date.
func (f *DocumentFormatter) documentInfo(sale *model.Sale, title string) []Directive {
	return []Directive{
		text(title, TextStyle{Bold: true, Centered: true}),
		text(fmt.Sprintf("No: %s", sale.DocumentNumber), TextStyle{Centered: true}),
		text(sale.IssuedAt.Format("02/01/2006 15:04"), TextStyle{Centered: true}),
		f.separator(),
	}
}

// itemRows renders one receipt line: name, quantity at unit price, and
// the line total. When a conversion rule applied, the row shows the
// converted quantity and the price per converted unit.
func (f *DocumentFormatter) itemRows(item *model.SaleItem) []Directive {
	var d []Directive

	d = append(d, text(ShapeBidiText(item.ProductName), TextStyle{Bold: true}))

	qty := item.Quantity
	unit := NormalizeUnit(item.Unit)
	unitPrice := item.UnitPrice
	if item.HasConversion() {
		qty = *item.ConvertedQuantity
		unit = NormalizeUnit(*item.ConvertedUnit)
		if qty != 0 {
			unitPrice = item.Total.Div(decimal.NewFromFloat(qty)).Round(2)
		}
	}
	qtyStr := fmt.Sprintf("%s %s", FormatQuantity(qty), unit)
	priceStr := fmt.Sprintf("$%s/%s", FormatMoney(unitPrice), unit)
	d = append(d, twoColumns(qtyStr, priceStr))
	d = append(d, twoColumns("Line Total:", "$"+FormatMoney(item.Total)))

	return d
}

func (f *DocumentFormatter) separator() Directive {
	return text(strings.Repeat("=", f.width), TextStyle{Centered: true})
}

func (f *DocumentFormatter) dashLine() Directive {
	return text(strings.Repeat("-", f.width), TextStyle{Centered: true})
}

func text(s string, style TextStyle) Directive {
	return Directive{Kind: DirectiveText, Text: s, Style: style}
}

func twoColumns(left, right string) Directive {
	return Directive{Kind: DirectiveTwoColumns, Left: left, Right: right}
}

func raw(data []byte) Directive {
	return Directive{Kind: DirectiveRaw, Raw: data}
}

func feed(n int) Directive {
	return Directive{Kind: DirectiveFeed, Lines: n}
}

// FormatTwoColumns lays left and right on one line of exactly width
// runes. The left column is truncated to leave at least one space
// before the right column.
func FormatTwoColumns(left, right string, width int) string {
	leftRunes := []rune(left)
	rightRunes := []rune(right)

	maxLeft := width - len(rightRunes) - 1
	if maxLeft < 0 {
		maxLeft = 0
	}
	if len(leftRunes) > maxLeft {
		leftRunes = leftRunes[:maxLeft]
	}

	padding := width - len(leftRunes) - len(rightRunes)
	if padding < 1 {
		padding = 1
	}
	return string(leftRunes) + strings.Repeat(" ", padding) + string(rightRunes)
}

// FormatMoney renders a monetary amount with two fixed decimals.
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatQuantity renders a quantity bare when integral, otherwise with
// two decimals and a dot separator.
func FormatQuantity(q float64) string {
	if q == math.Trunc(q) && !math.IsInf(q, 0) {
		return strconv.FormatFloat(q, 'f', 0, 64)
	}
	return strconv.FormatFloat(q, 'f', 2, 64)
}

// TaxPercent derives the whole tax percentage from the tax amount and
// the subtotal, truncating toward zero. A zero subtotal yields zero.
func TaxPercent(tax, subtotal decimal.Decimal) int64 {
	if subtotal.IsZero() {
		return 0
	}
	return tax.Div(subtotal).Mul(decimal.NewFromInt(100)).IntPart()
}
