package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Row is one durable order record in a day's container. OrderTotal is
// stored formatted with the currency symbol; ItemsJSON is the canonical,
// authoritative field for reconstruction.
type Row struct {
	OrderNumber      string
	TableNumber      string
	Timestamp        string
	ItemsSummary     string
	UniversalComment string
	OrderTotal       string
	PrintedStatus    string
	ItemsJSON        string
}

var columns = []string{
	"order_number",
	"table_number",
	"timestamp",
	"items_summary",
	"universal_comment",
	"order_total",
	"printed_status",
	"items_json",
}

// aggregateMarker is the order_number earlier versions of the system used
// for the end-of-day summary trailer row. Such rows are placeholder data,
// never orders, and are dropped on read.
const aggregateMarker = "Total"

// legacyColumns maps current column names to the headers earlier day files
// were written with, so those files stay readable. Legacy rows carry no
// items_json and therefore cannot be reprinted, but they still count toward
// the daily total.
var legacyColumns = map[string]string{
	"items_summary":  "items",
	"order_total":    "total",
	"printed_status": "printed",
}

func dayFilePath(dir string, day time.Time) string {
	return filepath.Join(dir, "orders_"+day.Format("2006-01-02")+".csv")
}

// readRows loads every order row from a day file. A missing file is an
// empty day, not an error.
func readRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger header %s: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok {
			if legacy, has := legacyColumns[name]; has {
				i, ok = index[legacy]
			}
		}
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger row %s: %w", path, err)
		}
		if field(record, "order_number") == aggregateMarker {
			continue
		}
		rows = append(rows, Row{
			OrderNumber:      field(record, "order_number"),
			TableNumber:      field(record, "table_number"),
			Timestamp:        field(record, "timestamp"),
			ItemsSummary:     field(record, "items_summary"),
			UniversalComment: field(record, "universal_comment"),
			OrderTotal:       field(record, "order_total"),
			PrintedStatus:    field(record, "printed_status"),
			ItemsJSON:        field(record, "items_json"),
		})
	}
	return rows, nil
}

// writeRows rewrites the whole day file. Callers must hold the ledger
// mutex: the rewrite emulates an append and two unguarded writers would
// silently lose one another's rows.
func writeRows(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create ledger %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write ledger header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.OrderNumber,
			row.TableNumber,
			row.Timestamp,
			row.ItemsSummary,
			row.UniversalComment,
			row.OrderTotal,
			row.PrintedStatus,
			row.ItemsJSON,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write ledger row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush ledger %s: %w", path, err)
	}
	return f.Close()
}
