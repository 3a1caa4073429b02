// internal/printer/commands.go
package printer

// ESC_POS_COMMANDS contains the ESC/POS command sequences used by the
// receipt printer transport
var ESC_POS_COMMANDS = struct {
	// Basic commands
	INITIALIZE     []byte
	STATUS_REQUEST []byte

	// Text formatting
	TEXT_BOLD_ON  []byte
	TEXT_BOLD_OFF []byte
	TEXT_RESET    []byte

	// Text size
	TEXT_SIZE_NORMAL        []byte
	TEXT_SIZE_DOUBLE_WIDTH  []byte
	TEXT_SIZE_DOUBLE_HEIGHT []byte
	TEXT_SIZE_DOUBLE_BOTH   []byte

	// Text alignment
	ALIGN_LEFT   []byte
	ALIGN_CENTER []byte
	ALIGN_RIGHT  []byte

	// Character sets
	SELECT_CHARSET_PC437 []byte
	SELECT_CHARSET_PC864 []byte

	// Paper handling
	LINE_FEED  []byte
	FEED_LINES []byte // + line count byte

	// Cutting
	CUT_FULL    []byte
	CUT_PARTIAL []byte
}{
	// Basic commands
	INITIALIZE:     []byte{0x1B, 0x40},       // ESC @
	STATUS_REQUEST: []byte{0x10, 0x04, 0x01}, // DLE EOT 1

	// Text formatting
	TEXT_BOLD_ON:  []byte{0x1B, 0x45, 0x01}, // ESC E 1
	TEXT_BOLD_OFF: []byte{0x1B, 0x45, 0x00}, // ESC E 0
	TEXT_RESET:    []byte{0x1B, 0x21, 0x00}, // ESC ! 0

	// Text size
	TEXT_SIZE_NORMAL:        []byte{0x1D, 0x21, 0x00}, // GS ! 0
	TEXT_SIZE_DOUBLE_WIDTH:  []byte{0x1D, 0x21, 0x20}, // GS ! 32
	TEXT_SIZE_DOUBLE_HEIGHT: []byte{0x1D, 0x21, 0x10}, // GS ! 16
	TEXT_SIZE_DOUBLE_BOTH:   []byte{0x1D, 0x21, 0x30}, // GS ! 48

	// Text alignment
	ALIGN_LEFT:   []byte{0x1B, 0x61, 0x00}, // ESC a 0
	ALIGN_CENTER: []byte{0x1B, 0x61, 0x01}, // ESC a 1
	ALIGN_RIGHT:  []byte{0x1B, 0x61, 0x02}, // ESC a 2

	// Character sets
	SELECT_CHARSET_PC437: []byte{0x1B, 0x74, 0x00}, // ESC t 0
	SELECT_CHARSET_PC864: []byte{0x1B, 0x74, 0x25}, // ESC t 37 (Arabic)

	// Paper handling
	LINE_FEED:  []byte{0x0A},       // LF
	FEED_LINES: []byte{0x1B, 0x64}, // ESC d + n

	// Cutting
	CUT_FULL:    []byte{0x1D, 0x56, 0x00}, // GS V 0
	CUT_PARTIAL: []byte{0x1D, 0x56, 0x01}, // GS V 1
}

// PaperWidth58 is the printable character width of a 58mm printer with
// the default font.
const PaperWidth58 = 32

