package sqlite

// Schema creates the tables of a wallet database. It is idempotent.
//
// Dates are stored once as ISO-8601 text, so that text comparison is date order.
const Schema = `
CREATE TABLE IF NOT EXISTS Assets (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_id TEXT NOT NULL UNIQUE,
	ticker   TEXT NOT NULL UNIQUE,
	currency TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS Orders (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_id INTEGER NOT NULL,
	date     TEXT NOT NULL,
	quantity REAL NOT NULL,
	price    REAL NOT NULL,
	FOREIGN KEY(asset_id) REFERENCES Assets(id),
	UNIQUE(asset_id, date, quantity, price)
);
CREATE INDEX IF NOT EXISTS idx_orders_date ON Orders(date);

CREATE TABLE IF NOT EXISTS Dates (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS Prices (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	asset_id INTEGER NOT NULL,
	date_id  INTEGER NOT NULL,
	close    REAL NOT NULL,
	FOREIGN KEY(asset_id) REFERENCES Assets(id),
	FOREIGN KEY(date_id) REFERENCES Dates(id),
	UNIQUE(asset_id, date_id)
);
`
