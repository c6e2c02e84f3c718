package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
    source_key           TEXT NOT NULL,
    row_index            INTEGER NOT NULL,
    dias                 REAL,
    valor_venda          REAL,
    lucro_liquido        REAL,
    vendedor             TEXT NOT NULL,
    ano_mod              TEXT,
    PRIMARY KEY (source_key, row_index)
);

CREATE TABLE IF NOT EXISTS source_tracker (
    source_key           TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    rows_seen            INTEGER NOT NULL DEFAULT 0,
    rows_skipped         INTEGER NOT NULL DEFAULT 0,
    warnings             INTEGER NOT NULL DEFAULT 0,
    fetched_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS goals (
    seller               TEXT PRIMARY KEY,
    goal                 REAL NOT NULL DEFAULT 0,
    updated_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_records_vendedor ON records(vendedor);
`
