package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

var (
	transactionHeader = []string{"owner", "side", "symbol", "quantity", "price", "total", "time"}
	orderHeader       = []string{"order_id", "owner", "side", "symbol", "quantity", "order_price", "fill_price", "status", "reason", "created", "decided"}
)

// CSVJournal appends records to two CSV files. A header row is written
// only when a file is new or empty, so successive runs extend one log.
type CSVJournal struct {
	txns   *csv.Writer
	orders *csv.Writer
	tf, of *os.File
}

func NewCSV(transactionsPath, ordersPath string) (*CSVJournal, error) {
	tf, tw, err := openCSV(transactionsPath, transactionHeader)
	if err != nil {
		return nil, err
	}
	of, ow, err := openCSV(ordersPath, orderHeader)
	if err != nil {
		_ = tf.Close()
		return nil, err
	}
	return &CSVJournal{txns: tw, orders: ow, tf: tf, of: of}, nil
}

func openCSV(path string, header []string) (*os.File, *csv.Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			_ = f.Close()
			return nil, nil, err
		}
	}
	return f, w, nil
}

func (j *CSVJournal) RecordTransaction(t TransactionRecord) error {
	err := j.txns.Write([]string{
		t.Owner,
		t.Side.String(),
		t.Symbol,
		strconv.Itoa(t.Quantity),
		f(t.Price),
		f(t.Total()),
		t.Time.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	j.txns.Flush()
	return j.txns.Error()
}

func (j *CSVJournal) RecordOrder(o OrderRecord) error {
	err := j.orders.Write([]string{
		o.OrderID,
		o.Owner,
		o.Side.String(),
		o.Symbol,
		strconv.Itoa(o.Quantity),
		f(o.OrderPrice),
		f(o.FillPrice),
		o.Status,
		o.Reason,
		o.Created.Format(time.RFC3339),
		o.Decided.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	j.orders.Flush()
	return j.orders.Error()
}

func (j *CSVJournal) Close() error {
	j.txns.Flush()
	if err := j.txns.Error(); err != nil {
		return err
	}
	j.orders.Flush()
	if err := j.orders.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.of.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
