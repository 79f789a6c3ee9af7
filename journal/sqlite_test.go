package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/stocksim/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('transactions','orders')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["transactions"])
	assert.True(t, found["orders"])
}

func TestSQLiteRecordTransaction(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, j.RecordTransaction(TransactionRecord{
		Owner:    "alice",
		Side:     market.Sell,
		Symbol:   "GOOGL",
		Quantity: 2,
		Price:    2800.75,
		Time:     at,
	}))
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var (
		owner, side, symbol string
		qty                 int
		price               float64
		tm                  time.Time
	)
	err = db.QueryRow(`SELECT owner, side, symbol, quantity, price, time FROM transactions`).
		Scan(&owner, &side, &symbol, &qty, &price, &tm)
	require.NoError(t, err)

	assert.Equal(t, "alice", owner)
	assert.Equal(t, "SELL", side)
	assert.Equal(t, "GOOGL", symbol)
	assert.Equal(t, 2, qty)
	assert.Equal(t, 2800.75, price)
	assert.True(t, tm.Equal(at))
}

func TestSQLiteRecordOrderReplacesByID(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := OrderRecord{
		OrderID:    "ORD-A",
		Owner:      "alice",
		Side:       market.Buy,
		Symbol:     "AMZN",
		Quantity:   5,
		OrderPrice: 135.4,
		Status:     "PENDING",
		Created:    at,
		Decided:    at,
	}
	require.NoError(t, j.RecordOrder(rec))

	rec.Status = "EXECUTED"
	rec.FillPrice = 136.0
	require.NoError(t, j.RecordOrder(rec))

	got, err := j.GetOrder("ORD-A")
	require.NoError(t, err)
	assert.Equal(t, "EXECUTED", got.Status)
	assert.Equal(t, 136.0, got.FillPrice)

	all, err := j.ListOrders("alice", 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
