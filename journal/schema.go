package journal

const Schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner TEXT NOT NULL,
	side TEXT NOT NULL,
	symbol TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price REAL NOT NULL,
	time DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	order_id TEXT PRIMARY KEY,
	owner TEXT NOT NULL,
	side TEXT NOT NULL,
	symbol TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	order_price REAL NOT NULL,
	fill_price REAL NOT NULL,
	status TEXT NOT NULL,
	reason TEXT NOT NULL,
	created DATETIME NOT NULL,
	decided DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_owner_time ON transactions(owner, time);
CREATE INDEX IF NOT EXISTS idx_orders_owner_created ON orders(owner, created);
`
