package escpos

// Substitute replaces any character the device's CP437 table cannot
// represent. Encoding is total: it never fails, it degrades.
const Substitute = '?'

// cp437 maps the non-ASCII runes the menu data actually contains onto their
// code page 437 positions. Anything absent degrades to Substitute.
var cp437 = map[rune]byte{
	'Ç': 0x80, 'ü': 0x81, 'é': 0x82, 'â': 0x83, 'ä': 0x84, 'à': 0x85,
	'å': 0x86, 'ç': 0x87, 'ê': 0x88, 'ë': 0x89, 'è': 0x8A, 'ï': 0x8B,
	'î': 0x8C, 'ì': 0x8D, 'Ä': 0x8E, 'Å': 0x8F, 'É': 0x90, 'æ': 0x91,
	'Æ': 0x92, 'ô': 0x93, 'ö': 0x94, 'ò': 0x95, 'û': 0x96, 'ù': 0x97,
	'ÿ': 0x98, 'Ö': 0x99, 'Ü': 0x9A, '¢': 0x9B, '£': 0x9C, '¥': 0x9D,
	'ƒ': 0x9F, 'á': 0xA0, 'í': 0xA1, 'ó': 0xA2, 'ú': 0xA3, 'ñ': 0xA4,
	'Ñ': 0xA5, 'ª': 0xA6, 'º': 0xA7, '¿': 0xA8, '½': 0xAB, '¼': 0xAC,
	'¡': 0xAD, '«': 0xAE, '»': 0xAF, 'ß': 0xE1, 'µ': 0xE6, '°': 0xF8,
	'·': 0xFA, '²': 0xFD,
}

// Encode transcodes text into the device's single-byte character table.
// ASCII passes through, mapped runes use their CP437 byte, everything else
// becomes Substitute.
func Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r < 0x80:
			out = append(out, byte(r))
		default:
			if b, ok := cp437[r]; ok {
				out = append(out, b)
			} else {
				out = append(out, Substitute)
			}
		}
	}
	return out
}
