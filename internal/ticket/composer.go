// Package ticket turns an order into the raw byte stream for one printed
// ticket copy, combining layout decisions with ESC/POS opcodes.
package ticket

import (
	"bytes"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"sushaki-system/internal/escpos"
	"sushaki-system/internal/layout"
	"sushaki-system/internal/models"
)

const (
	// Normal font A width of the target device.
	lineWidth = 42
	// Double-width characters occupy two columns each.
	doubleLineWidth = lineWidth / 2
	// Condensed font B fits more columns on the same paper.
	smallLineWidth = 56

	timeFormat = "2006-01-02 15:04:05"

	disclaimer = "This is a kitchen work ticket and not a receipt or proof of payment."
)

// Composer renders orders as printable tickets. It is stateless apart from
// its immutable configuration; Compose never mutates the order.
type Composer struct {
	restaurantName string
	currency       string
	now            func() time.Time
}

func NewComposer(restaurantName, currency string) *Composer {
	return &Composer{
		restaurantName: restaurantName,
		currency:       currency,
		now:            time.Now,
	}
}

// WithClock substitutes the wall clock, for deterministic output in tests.
func (c *Composer) WithClock(now func() time.Time) *Composer {
	c.now = now
	return c
}

// Compose produces the complete byte stream for one physical ticket copy.
// copyLabel, when non-empty, prints as a centered banner under the header
// ("KITCHEN", "REPRINT"). overrideTimestamp, when non-empty, is printed
// verbatim instead of the current wall clock; reprints use it to preserve
// the original capture time. Given identical arguments the output is
// byte-identical.
func (c *Composer) Compose(order models.Order, copyLabel, overrideTimestamp string) ([]byte, error) {
	ts := overrideTimestamp
	if ts == "" {
		ts = c.now().Format(timeFormat)
	}

	b := newBuilder()
	b.op(escpos.Initialize)

	// Header.
	b.op(escpos.AlignCenter)
	b.op(escpos.SizeDoubleBoth)
	b.op(escpos.BoldOn)
	b.line(c.restaurantName)
	b.op(escpos.BoldOff)
	b.op(escpos.SizeNormal)
	if copyLabel != "" {
		b.line("** " + copyLabel + " **")
	}
	b.line("Kitchen Order")
	b.op(escpos.AlignLeft)

	b.op(escpos.SizeDoubleBoth)
	b.op(escpos.BoldOn)
	b.line("Order #: " + order.Number.String())
	b.op(escpos.BoldOff)
	b.op(escpos.SizeNormal)
	if order.TableNumber != "" {
		b.line("Table: " + order.TableNumber)
	}
	b.line("Time: " + ts)
	b.line(strings.Repeat("-", lineWidth))

	for i, item := range order.Items {
		if err := c.composeItem(b, item); err != nil {
			return nil, err
		}
		if i < len(order.Items)-1 {
			b.line(strings.Repeat(".", lineWidth))
		}
	}

	// Footer.
	b.line(strings.Repeat("-", lineWidth))
	b.op(escpos.AlignRight)
	b.op(escpos.SizeDoubleBoth)
	b.op(escpos.BoldOn)
	b.line(fmt.Sprintf("TOTAL: %s %s", c.currency, order.Total().StringFixed(2)))
	b.op(escpos.BoldOff)
	b.op(escpos.SizeNormal)
	b.op(escpos.AlignLeft)
	b.line(strings.Repeat("-", lineWidth))

	if notes := strings.TrimSpace(order.UniversalComment); notes != "" {
		b.op(escpos.BoldOn)
		b.line("ORDER NOTES:")
		b.op(escpos.BoldOff)
		b.op(escpos.SizeDoubleHeight)
		if err := b.wrapped(notes, lineWidth, "", ""); err != nil {
			return nil, err
		}
		b.op(escpos.SizeNormal)
	}

	b.op(escpos.AlignCenter)
	b.op(escpos.FontSmall)
	if err := b.wrapped(disclaimer, smallLineWidth, "", ""); err != nil {
		return nil, err
	}
	b.op(escpos.FontNormal)
	b.op(escpos.AlignLeft)

	b.feed(4)
	b.op(escpos.Cut)
	return b.bytes(), nil
}

// composeItem lays out one item block: the name/price row(s), any priced
// options, and the item note.
func (c *Composer) composeItem(b *builder, item models.Item) error {
	left := fmt.Sprintf("%dx %s", item.Quantity, item.Name)
	right := fmt.Sprintf("%s %s", c.currency, item.LineTotal().StringFixed(2))
	rightCols := utf8.RuneCountInString(right)

	// Item names print double width, so their on-device width is twice
	// their character count. Each rune encodes to one device column.
	if 2*utf8.RuneCountInString(left)+rightCols < lineWidth {
		b.op(escpos.SizeDoubleBoth)
		b.op(escpos.BoldOn)
		b.text(left)
		b.op(escpos.BoldOff)
		b.op(escpos.SizeNormal)
		b.line(strings.Repeat(" ", lineWidth-2*utf8.RuneCountInString(left)-rightCols) + right)
	} else {
		nameLines, err := layout.Wrap(left, doubleLineWidth, "", "  ")
		if err != nil {
			return err
		}
		b.op(escpos.SizeDoubleBoth)
		b.op(escpos.BoldOn)
		for _, ln := range nameLines[:len(nameLines)-1] {
			b.line(ln)
		}
		last := nameLines[len(nameLines)-1]
		b.text(last)
		b.op(escpos.BoldOff)
		b.op(escpos.SizeNormal)
		if pad := lineWidth - 2*utf8.RuneCountInString(last) - rightCols; pad >= 1 {
			b.line(strings.Repeat(" ", pad) + right)
		} else {
			b.line("")
			b.line(strings.Repeat(" ", lineWidth-rightCols) + right)
		}
	}

	for _, opt := range item.SelectedOptions {
		if opt.PriceDelta.IsZero() {
			continue
		}
		sign := "+"
		if opt.PriceDelta.IsNegative() {
			sign = "-"
		}
		b.line(fmt.Sprintf("  -> %s (%s%s%s)", opt.Name, sign, c.currency, opt.PriceDelta.Abs().StringFixed(2)))
	}

	if note := strings.TrimSpace(item.Comment); note != "" {
		b.op(escpos.BoldOn)
		if err := b.wrapped("Note: "+note, lineWidth, "  ", "  "); err != nil {
			return err
		}
		b.op(escpos.BoldOff)
	}
	return nil
}

// builder accumulates opcode and transcoded text segments into the finished
// ticket buffer.
type builder struct {
	buf bytes.Buffer
}

func newBuilder() *builder {
	return &builder{}
}

func (b *builder) op(opcode []byte) {
	b.buf.Write(opcode)
}

func (b *builder) text(s string) {
	b.buf.Write(escpos.Encode(s))
}

func (b *builder) line(s string) {
	b.text(s)
	b.buf.WriteByte('\n')
}

func (b *builder) wrapped(text string, width int, initialIndent, subsequentIndent string) error {
	lines, err := layout.Wrap(text, width, initialIndent, subsequentIndent)
	if err != nil {
		return err
	}
	for _, ln := range lines {
		b.line(ln)
	}
	return nil
}

func (b *builder) feed(n int) {
	for i := 0; i < n; i++ {
		b.buf.WriteByte('\n')
	}
}

func (b *builder) bytes() []byte {
	return b.buf.Bytes()
}
