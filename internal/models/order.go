package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderNumber is an opaque display identifier. It is not guaranteed unique
// across days. The frontend historically sends it as a bare JSON number,
// newer clients send a string, so intake accepts both.
type OrderNumber string

func (n *OrderNumber) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = OrderNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("order number must be a string or number: %w", err)
	}
	*n = OrderNumber(num.String())
	return nil
}

func (n OrderNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

func (n OrderNumber) String() string { return string(n) }

// Option is a single selected modifier on an item. A zero PriceDelta is a
// valid selection that simply does not print.
type Option struct {
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"priceDelta"`
}

type Item struct {
	Quantity        int             `json:"quantity"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Comment         string          `json:"comment,omitempty"`
	SelectedOptions []Option        `json:"selectedOptions,omitempty"`
}

// LineTotal is quantity x (unit price + sum of option deltas).
func (i Item) LineTotal() decimal.Decimal {
	unit := i.UnitPrice
	for _, opt := range i.SelectedOptions {
		unit = unit.Add(opt.PriceDelta)
	}
	return unit.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is immutable after intake; the composer and ledger never mutate it.
type Order struct {
	Number           OrderNumber `json:"number"`
	TableNumber      string      `json:"tableNumber,omitempty"`
	Items            []Item      `json:"items"`
	UniversalComment string      `json:"universalComment,omitempty"`
}

func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

var (
	ErrNoItems          = errors.New("order has no items")
	ErrNegativeQuantity = errors.New("item quantity must be non-negative")
	ErrNegativePrice    = errors.New("item unit price must be non-negative")
)

// Validate rejects inconsistent intake data in one place, before any ledger
// or print side effect.
func (o Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	for idx, item := range o.Items {
		if item.Quantity < 0 {
			return fmt.Errorf("item %d (%q): %w", idx, item.Name, ErrNegativeQuantity)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("item %d (%q): %w", idx, item.Name, ErrNegativePrice)
		}
	}
	return nil
}

// MarshalItems produces the canonical serialized form of an item list, the
// sole field reprint trusts for reconstruction.
func MarshalItems(items []Item) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("marshal items: %w", err)
	}
	return string(data), nil
}

// UnmarshalItems reverses MarshalItems. Corrupt payloads are surfaced, never
// defaulted: reprint must not fabricate item data.
func UnmarshalItems(data string) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	return items, nil
}

// ItemsSummary flattens an item list into the human-readable display string
// stored alongside the canonical form, e.g.
// `2x Salmon Roll (Note: no wasabi) ($18.00)`.
func ItemsSummary(items []Item, currency string) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		var b strings.Builder
		fmt.Fprintf(&b, "%dx %s", item.Quantity, item.Name)
		for _, opt := range item.SelectedOptions {
			if !opt.PriceDelta.IsZero() {
				fmt.Fprintf(&b, " [%s %s%s]", opt.Name, signPrefix(opt.PriceDelta), currency+opt.PriceDelta.Abs().StringFixed(2))
			} else {
				fmt.Fprintf(&b, " [%s]", opt.Name)
			}
		}
		if c := strings.TrimSpace(item.Comment); c != "" {
			fmt.Fprintf(&b, " (Note: %s)", c)
		}
		fmt.Fprintf(&b, " (%s%s)", currency, item.LineTotal().StringFixed(2))
		parts = append(parts, b.String())
	}
	return strings.Join(parts, " | ")
}

func signPrefix(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-"
	}
	return "+"
}
