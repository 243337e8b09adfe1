// Package escpos maps abstract ticket styling operations onto the ESC/POS
// control sequences understood by the receipt device, and transcodes text
// into its code page 437 character table. The package holds no state;
// callers sequence the opcodes.
package escpos

// Control characters.
const (
	esc = 0x1B
	gs  = 0x1D
)

// GS ! n size multipliers: high nibble is width-1, low nibble is height-1.
const (
	sizeNormal       = 0x00
	sizeDoubleHeight = 0x01
	sizeDoubleWidth  = 0x10
	sizeDoubleBoth   = 0x11
)

var (
	// Initialize resets the device to its power-on defaults (ESC @).
	Initialize = []byte{esc, 0x40}

	BoldOn  = []byte{esc, 0x45, 0x01}
	BoldOff = []byte{esc, 0x45, 0x00}

	// Font A is the standard 12x24 font, font B the condensed 9x17 one.
	FontNormal = []byte{esc, 0x4D, 0x00}
	FontSmall  = []byte{esc, 0x4D, 0x01}

	SizeNormal       = []byte{gs, 0x21, sizeNormal}
	SizeDoubleHeight = []byte{gs, 0x21, sizeDoubleHeight}
	SizeDoubleWidth  = []byte{gs, 0x21, sizeDoubleWidth}
	SizeDoubleBoth   = []byte{gs, 0x21, sizeDoubleBoth}

	AlignLeft   = []byte{esc, 0x61, 0x00}
	AlignCenter = []byte{esc, 0x61, 0x01}
	AlignRight  = []byte{esc, 0x61, 0x02}

	// Cut feeds past the print head and performs a partial cut (GS V B).
	Cut = []byte{gs, 0x56, 0x42, 0x00}
)
