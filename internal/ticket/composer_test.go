package ticket

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"sushaki-system/internal/escpos"
	"sushaki-system/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)
}

func testComposer() *Composer {
	return NewComposer("SUSHAKI RESTAURANT", "$").WithClock(fixedClock)
}

func salmonRollOrder() models.Order {
	return models.Order{
		Number: "1234",
		Items: []models.Item{
			{
				Quantity:  2,
				Name:      "Salmon Roll",
				UnitPrice: decimal.RequireFromString("8.50"),
				SelectedOptions: []models.Option{
					{Name: "Spicy", PriceDelta: decimal.RequireFromString("0.50")},
				},
			},
		},
	}
}

func TestCompose_SalmonRollScenario(t *testing.T) {
	buf, err := testComposer().Compose(salmonRollOrder(), "KITCHEN", "")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	for _, want := range []string{
		"SUSHAKI RESTAURANT",
		"** KITCHEN **",
		"Kitchen Order",
		"Order #: 1234",
		"Time: 2024-03-15 18:30:00",
		"2x Salmon Roll",
		"$ 18.00",
		"-> Spicy (+$0.50)",
		"TOTAL: $ 18.00",
	} {
		if !bytes.Contains(buf, []byte(want)) {
			t.Errorf("ticket missing %q", want)
		}
	}
	if !bytes.HasPrefix(buf, escpos.Initialize) {
		t.Error("ticket does not start with Initialize")
	}
	if !bytes.HasSuffix(buf, escpos.Cut) {
		t.Error("ticket does not end with Cut")
	}
}

func TestCompose_IdempotentWithOverride(t *testing.T) {
	c := testComposer()
	first, err := c.Compose(salmonRollOrder(), "REPRINT", "2024-01-01 09:00:00")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	second, err := c.Compose(salmonRollOrder(), "REPRINT", "2024-01-01 09:00:00")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("identical compose calls produced different bytes")
	}
}

func TestCompose_OverrideTimestampVerbatim(t *testing.T) {
	buf, err := testComposer().Compose(salmonRollOrder(), "REPRINT", "2023-11-02 12:05:09")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !bytes.Contains(buf, []byte("Time: 2023-11-02 12:05:09")) {
		t.Error("override timestamp not printed verbatim")
	}
	if bytes.Contains(buf, []byte("2024-03-15")) {
		t.Error("wall clock leaked into reprint ticket")
	}
}

func TestCompose_CopyLabelOmittedWhenEmpty(t *testing.T) {
	buf, err := testComposer().Compose(salmonRollOrder(), "", "")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if bytes.Contains(buf, []byte("**")) {
		t.Error("empty copy label still printed a banner")
	}
}

func TestCompose_LongNameWrapsWithPriceIntact(t *testing.T) {
	name := strings.Repeat("Dragon Maki ", 5) // 60 characters
	order := models.Order{
		Number: "77",
		Items: []models.Item{
			{Quantity: 1, Name: name, UnitPrice: decimal.RequireFromString("12.00")},
		},
	}
	buf, err := testComposer().Compose(order, "", "")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	// The left fragment must be wrapped at the double-width budget, so the
	// full name cannot appear on a single line.
	if bytes.Contains(buf, []byte("1x "+name)) {
		t.Error("60-character name was not wrapped")
	}
	if !bytes.Contains(buf, []byte("$ 12.00")) {
		t.Error("price fragment missing after wrapped name")
	}
	// At 21 columns the 63-character fragment needs at least three lines.
	doubleOn := bytes.Count(buf, escpos.SizeDoubleBoth)
	if doubleOn < 1 {
		t.Error("wrapped name not printed in double size")
	}
}

func TestCompose_AccentedNamePadsByColumns(t *testing.T) {
	order := models.Order{
		Number: "12",
		Items: []models.Item{
			{Quantity: 1, Name: "Crème Brûlée", UnitPrice: decimal.RequireFromString("9.00")},
		},
	}
	buf, err := testComposer().Compose(order, "", "")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	// "1x Crème Brûlée" is 15 columns wide on the device even though it is
	// 18 bytes of UTF-8, so the one-row layout applies and the price is
	// padded to 42 - 2*15 - 6 = 6 columns.
	if !bytes.Contains(buf, []byte("      $ 9.00\n")) {
		t.Error("price not flush-right for accented name")
	}
	if bytes.Contains(buf, []byte{escpos.Substitute}) {
		t.Error("accented name degraded to substitute characters")
	}
}

func TestCompose_ZeroDeltaOptionNotPrinted(t *testing.T) {
	order := salmonRollOrder()
	order.Items[0].SelectedOptions = append(order.Items[0].SelectedOptions,
		models.Option{Name: "No Rice", PriceDelta: decimal.Zero})
	buf, err := testComposer().Compose(order, "", "")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if bytes.Contains(buf, []byte("No Rice")) {
		t.Error("zero-delta option should not print")
	}
	if !bytes.Contains(buf, []byte("Spicy")) {
		t.Error("priced option missing")
	}
}

func TestCompose_NegativeDeltaShowsMinus(t *testing.T) {
	order := salmonRollOrder()
	order.Items[0].SelectedOptions = []models.Option{
		{Name: "No Roe", PriceDelta: decimal.RequireFromString("-0.75")},
	}
	buf, err := testComposer().Compose(order, "", "")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !bytes.Contains(buf, []byte("-> No Roe (-$0.75)")) {
		t.Error("negative delta not rendered with minus sign")
	}
}

func TestCompose_NotesAndSeparators(t *testing.T) {
	order := models.Order{
		Number:           "9",
		UniversalComment: "Allergy: peanuts at the table",
		Items: []models.Item{
			{Quantity: 1, Name: "Miso Soup", UnitPrice: decimal.RequireFromString("3.00"), Comment: "extra tofu"},
			{Quantity: 1, Name: "Green Tea", UnitPrice: decimal.RequireFromString("2.00")},
		},
	}
	buf, err := testComposer().Compose(order, "", "")
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if !bytes.Contains(buf, []byte("Note: extra tofu")) {
		t.Error("item note missing")
	}
	if !bytes.Contains(buf, []byte("ORDER NOTES:")) {
		t.Error("order notes label missing")
	}
	if got := bytes.Count(buf, []byte(strings.Repeat(".", 42))); got != 1 {
		t.Errorf("expected exactly one dotted separator between two items, got %d", got)
	}
}
