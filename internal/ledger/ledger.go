// Package ledger durably records every order for end-of-day accounting and
// reconstructs orders from stored rows for reprint. Each calendar day gets
// one CSV container; rows are append-ordered by arrival and never updated
// or deleted.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"sushaki-system/internal/models"
	"sushaki-system/internal/printer"
	"sushaki-system/internal/ticket"
)

// PrintedStatus records how many physical copies of an order's ticket made
// it to the device.
type PrintedStatus string

const (
	PrintedBoth    PrintedStatus = "Yes (2 copies)"
	PrintedPartial PrintedStatus = "Partial (1 copy)"
	PrintedNone    PrintedStatus = "No"
)

const (
	copiesPerOrder = 2
	liveCopyLabel  = "KITCHEN"
	reprintLabel   = "REPRINT"
	timeFormat     = "2006-01-02 15:04:05"
)

var (
	ErrNotFound     = errors.New("order not found in today's ledger")
	ErrCorruptItems = errors.New("corrupted item data")
	ErrPrintFailed  = errors.New("ticket transmission failed")
)

// ReprintListing is one entry of the current day's reprint menu.
type ReprintListing struct {
	OrderNumber string `json:"order_number"`
	TableNumber string `json:"table_number"`
	Timestamp   string `json:"timestamp"`
}

// Ledger owns the day files and drives ticket printing. The mutex makes the
// read-all/add-row/rewrite cycle single-writer: without it two concurrent
// orders could each rewrite the container from the same snapshot and lose a
// row.
type Ledger struct {
	mu sync.Mutex

	dir      string
	currency string
	composer *ticket.Composer
	sink     printer.Sink
	settle   time.Duration
	logger   *logrus.Logger
	now      func() time.Time
}

func New(dir, currency string, composer *ticket.Composer, sink printer.Sink, settle time.Duration, logger *logrus.Logger) *Ledger {
	return &Ledger{
		dir:      dir,
		currency: currency,
		composer: composer,
		sink:     sink,
		settle:   settle,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock substitutes the wall clock, for deterministic day files in tests.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Record prints two ticket copies for the order, then appends one row to
// today's container. A printer failure degrades PrintedStatus but never
// loses the order; only a ledger write failure is returned as an error.
func (l *Ledger) Record(ctx context.Context, order models.Order) (PrintedStatus, error) {
	captured := l.now()
	status := l.transmitCopies(ctx, order, liveCopyLabel, "")

	itemsJSON, err := models.MarshalItems(order.Items)
	if err != nil {
		return status, err
	}
	row := Row{
		OrderNumber:      order.Number.String(),
		TableNumber:      order.TableNumber,
		Timestamp:        captured.Format(timeFormat),
		ItemsSummary:     models.ItemsSummary(order.Items, l.currency),
		UniversalComment: strings.TrimSpace(order.UniversalComment),
		OrderTotal:       l.currency + order.Total().StringFixed(2),
		PrintedStatus:    string(status),
		ItemsJSON:        itemsJSON,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	path := dayFilePath(l.dir, captured)
	rows, err := readRows(path)
	if err != nil {
		// Never rewrite a container we could not read back; clobbering
		// existing rows is worse than failing this request.
		l.logOp(order.Number, "ledger_read").WithError(err).Error("ledger container unreadable")
		return status, err
	}
	rows = append(rows, row)
	if err := writeRows(path, rows); err != nil {
		l.logOp(order.Number, "ledger_write").WithError(err).Error("ledger append failed")
		return status, err
	}
	l.logOp(order.Number, "record").WithField("printed_status", status).Info("order recorded")
	return status, nil
}

// Lookup reconstructs an order from today's container. Only the current
// day is searched; when an order number was reused, the most recent row
// wins. Corrupt canonical items are surfaced as ErrCorruptItems, never
// silently defaulted.
func (l *Ledger) Lookup(orderNumber string) (models.Order, Row, error) {
	rows, err := l.todaysRows()
	if err != nil {
		return models.Order{}, Row{}, err
	}
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if row.OrderNumber != orderNumber || row.ItemsJSON == "" {
			continue
		}
		items, err := models.UnmarshalItems(row.ItemsJSON)
		if err != nil {
			l.logOp(models.OrderNumber(orderNumber), "lookup").WithError(err).Error("canonical items undecodable")
			return models.Order{}, Row{}, fmt.Errorf("%w: %v", ErrCorruptItems, err)
		}
		order := models.Order{
			Number:           models.OrderNumber(row.OrderNumber),
			TableNumber:      row.TableNumber,
			Items:            items,
			UniversalComment: row.UniversalComment,
		}
		return order, row, nil
	}
	return models.Order{}, Row{}, ErrNotFound
}

// Reprint re-enters the compose path with the stored capture time and the
// reprint copy label. It succeeds only if both copies transmit; reprints
// never append new rows.
func (l *Ledger) Reprint(ctx context.Context, orderNumber string) (PrintedStatus, error) {
	order, row, err := l.Lookup(orderNumber)
	if err != nil {
		return PrintedNone, err
	}
	status := l.transmitCopies(ctx, order, reprintLabel, row.Timestamp)
	if status != PrintedBoth {
		return status, ErrPrintFailed
	}
	l.logOp(order.Number, "reprint").Info("order reprinted")
	return status, nil
}

// TodaysOrders lists the current day's reprintable rows, most recent first.
// Rows without canonical items (and aggregate trailer rows from older files)
// are excluded.
func (l *Ledger) TodaysOrders() ([]ReprintListing, error) {
	rows, err := l.todaysRows()
	if err != nil {
		return nil, err
	}
	listings := make([]ReprintListing, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].ItemsJSON == "" {
			continue
		}
		listings = append(listings, ReprintListing{
			OrderNumber: rows[i].OrderNumber,
			TableNumber: rows[i].TableNumber,
			Timestamp:   rows[i].Timestamp,
		})
	}
	return listings, nil
}

// DailyTotal derives the current day's takings by summing stored order
// totals. It is a query, not a stored field: nothing in the container can
// drift. A malformed total contributes zero and a warning.
func (l *Ledger) DailyTotal() (decimal.Decimal, error) {
	rows, err := l.todaysRows()
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, row := range rows {
		raw := strings.TrimSpace(strings.TrimPrefix(row.OrderTotal, l.currency))
		if raw == "" {
			continue
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			l.logOp(models.OrderNumber(row.OrderNumber), "daily_total").
				WithField("order_total", row.OrderTotal).
				Warn("unparseable order total treated as zero")
			continue
		}
		total = total.Add(amount)
	}
	return total, nil
}

func (l *Ledger) todaysRows() ([]Row, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return readRows(dayFilePath(l.dir, l.now()))
}

// transmitCopies sends the ticket to the device copiesPerOrder times,
// strictly sequentially with a settle delay so jobs on the single physical
// device cannot overlap. Each copy's failure is caught and logged
// independently.
func (l *Ledger) transmitCopies(ctx context.Context, order models.Order, copyLabel, overrideTimestamp string) PrintedStatus {
	transmitted := 0
	for nth := 1; nth <= copiesPerOrder; nth++ {
		if nth > 1 && l.settle > 0 {
			time.Sleep(l.settle)
		}
		payload, err := l.composer.Compose(order, copyLabel, overrideTimestamp)
		if err != nil {
			l.logOp(order.Number, "compose").WithField("copy", nth).WithError(err).Error("ticket composition failed")
			continue
		}
		if err := l.sink.Transmit(ctx, payload); err != nil {
			l.logOp(order.Number, "transmit").WithField("copy", nth).WithError(err).Error("ticket transmission failed")
			continue
		}
		transmitted++
	}
	switch transmitted {
	case copiesPerOrder:
		return PrintedBoth
	case 0:
		return PrintedNone
	default:
		return PrintedPartial
	}
}

func (l *Ledger) logOp(orderNumber models.OrderNumber, operation string) *logrus.Entry {
	return l.logger.WithFields(logrus.Fields{
		"order_number": orderNumber.String(),
		"operation":    operation,
	})
}
