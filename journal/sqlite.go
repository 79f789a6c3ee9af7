package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTransaction(t TransactionRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO transactions
		(owner, side, symbol, quantity, price, time)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.Owner, t.Side.String(), t.Symbol, t.Quantity, t.Price, t.Time,
	)
	return err
}

// RecordOrder inserts the order outcome, replacing any earlier row for
// the same order id.
func (j *SQLite) RecordOrder(o OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO orders
		(order_id, owner, side, symbol, quantity, order_price, fill_price, status, reason, created, decided)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OrderID, o.Owner, o.Side.String(), o.Symbol, o.Quantity,
		o.OrderPrice, o.FillPrice, o.Status, o.Reason, o.Created, o.Decided,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
