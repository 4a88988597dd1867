package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS datasets (
    name                 TEXT PRIMARY KEY,
    source_path          TEXT,
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    dataset              TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    label                TEXT,
    value                REAL NOT NULL DEFAULT 0,
    percentage           REAL,
    color                TEXT,
    PRIMARY KEY (dataset, position)
);

CREATE INDEX IF NOT EXISTS idx_datasets_updated ON datasets(updated_at);
`
