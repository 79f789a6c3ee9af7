package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/stocksim/market"
)

const orderColumns = `order_id, owner, side, symbol, quantity, order_price, fill_price, status, reason, created, decided`

const transactionColumns = `owner, side, symbol, quantity, price, time`

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (OrderRecord, error) {
	var (
		rec  OrderRecord
		side string
	)
	err := s.Scan(
		&rec.OrderID,
		&rec.Owner,
		&side,
		&rec.Symbol,
		&rec.Quantity,
		&rec.OrderPrice,
		&rec.FillPrice,
		&rec.Status,
		&rec.Reason,
		&rec.Created,
		&rec.Decided,
	)
	if err != nil {
		return OrderRecord{}, err
	}
	if rec.Side, err = market.ParseSide(side); err != nil {
		return OrderRecord{}, fmt.Errorf("order %s: %w", rec.OrderID, err)
	}
	return rec, nil
}

func scanTransaction(s scanner) (TransactionRecord, error) {
	var (
		rec  TransactionRecord
		side string
	)
	err := s.Scan(
		&rec.Owner,
		&side,
		&rec.Symbol,
		&rec.Quantity,
		&rec.Price,
		&rec.Time,
	)
	if err != nil {
		return TransactionRecord{}, err
	}
	if rec.Side, err = market.ParseSide(side); err != nil {
		return TransactionRecord{}, err
	}
	return rec, nil
}

// GetOrder returns a single order record by ID.
func (j *SQLite) GetOrder(orderID string) (OrderRecord, error) {
	row := j.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, orderID)

	rec, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderRecord{}, fmt.Errorf("order %q: %w", orderID, ErrNotFound)
		}
		return OrderRecord{}, err
	}
	return rec, nil
}

// ListOrders returns up to limit orders for owner, newest first.
// A limit <= 0 returns all of them.
func (j *SQLite) ListOrders(owner string, limit int) ([]OrderRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE owner = ?
		ORDER BY created DESC, order_id DESC
		LIMIT ?`, owner, sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRecord
	for rows.Next() {
		rec, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTransactions returns up to limit transactions for owner, newest first.
// A limit <= 0 returns all of them.
func (j *SQLite) ListTransactions(owner string, limit int) ([]TransactionRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE owner = ?
		ORDER BY id DESC
		LIMIT ?`, owner, sqlLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListTransactionsBetween returns transactions whose time is within
// [start, end), oldest first.
func (j *SQLite) ListTransactionsBetween(owner string, start, end time.Time) ([]TransactionRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+transactionColumns+`
		FROM transactions
		WHERE owner = ? AND time >= ? AND time < ?
		ORDER BY time ASC, id ASC`, owner, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]TransactionRecord, error) {
	var out []TransactionRecord
	for rows.Next() {
		rec, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// sqlite treats a negative LIMIT as no limit.
func sqlLimit(n int) int {
	if n <= 0 {
		return -1
	}
	return n
}
