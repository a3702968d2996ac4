package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is the full persisted schema: customers, accounts,
// ledger_accounts, ledger_entries, transactions, audit_log. Every
// monetary column is NUMERIC(19,4); enum-typed columns use CHECK
// constraints so invalid values cannot land.
const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id              BIGSERIAL PRIMARY KEY,
	external_id     UUID NOT NULL UNIQUE,
	first_name      TEXT NOT NULL,
	last_name       TEXT NOT NULL,
	email           TEXT NOT NULL UNIQUE,
	kyc_status      TEXT NOT NULL DEFAULT 'PENDING'
	                    CHECK (kyc_status IN ('PENDING', 'VERIFIED', 'REJECTED')),
	is_active       BOOLEAN NOT NULL DEFAULT TRUE,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ledger_accounts (
	id              BIGSERIAL PRIMARY KEY,
	code            VARCHAR(20) NOT NULL UNIQUE,
	name            TEXT NOT NULL,
	category        TEXT NOT NULL
	                    CHECK (category IN ('ASSET', 'LIABILITY', 'EQUITY', 'REVENUE', 'EXPENSE')),
	currency        CHAR(3) NOT NULL,
	is_active       BOOLEAN NOT NULL DEFAULT TRUE,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id              BIGSERIAL PRIMARY KEY,
	transaction_id  UUID NOT NULL,
	account_id      BIGINT NOT NULL REFERENCES ledger_accounts(id),
	direction       TEXT NOT NULL CHECK (direction IN ('DEBIT', 'CREDIT')),
	amount          NUMERIC(19,4) NOT NULL CHECK (amount > 0),
	currency        CHAR(3) NOT NULL,
	description     VARCHAR(255) NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_account   ON ledger_entries(account_id);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_txn        ON ledger_entries(transaction_id);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_account_created
	ON ledger_entries(account_id, created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS accounts (
	id                  BIGSERIAL PRIMARY KEY,
	external_id         UUID NOT NULL UNIQUE,
	customer_id         BIGINT NOT NULL REFERENCES customers(id),
	ledger_account_id   BIGINT NOT NULL UNIQUE REFERENCES ledger_accounts(id),
	product_type        TEXT NOT NULL
	                        CHECK (product_type IN ('CHECKING', 'SAVINGS', 'CREDIT', 'PREPAID')),
	status              TEXT NOT NULL DEFAULT 'PENDING'
	                        CHECK (status IN ('PENDING', 'ACTIVE', 'FROZEN', 'BLOCKED', 'CLOSED')),
	currency            CHAR(3) NOT NULL,
	opened_at           TIMESTAMPTZ,
	closed_at           TIMESTAMPTZ,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_accounts_customer ON accounts(customer_id);

CREATE TABLE IF NOT EXISTS transactions (
	id                          BIGSERIAL PRIMARY KEY,
	external_id                 UUID NOT NULL UNIQUE,
	idempotency_key             VARCHAR(100) NOT NULL UNIQUE,
	type                        TEXT NOT NULL
	                                CHECK (type IN ('DEPOSIT', 'WITHDRAWAL', 'TRANSFER', 'REVERSAL')),
	status                      TEXT NOT NULL DEFAULT 'PENDING'
	                                CHECK (status IN ('PENDING', 'PROCESSING', 'COMPLETED', 'FAILED', 'REVERSED')),
	source_account_id           BIGINT REFERENCES accounts(id),
	destination_account_id      BIGINT REFERENCES accounts(id),
	amount                      NUMERIC(19,4) NOT NULL CHECK (amount > 0),
	currency                    CHAR(3) NOT NULL,
	description                 VARCHAR(255) NOT NULL DEFAULT '',
	reference_transaction_id    BIGINT REFERENCES transactions(id),
	ledger_transaction_id       UUID,
	error_message               TEXT,
	created_at                  TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at                TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_transactions_source      ON transactions(source_account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_destination ON transactions(destination_account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_reference   ON transactions(reference_transaction_id);

CREATE TABLE IF NOT EXISTS audit_log (
	id              BIGSERIAL PRIMARY KEY,
	entity_type     TEXT NOT NULL,
	entity_id       TEXT NOT NULL,
	action          TEXT NOT NULL,
	detail          TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity_type, entity_id);
`

// Migrate creates the schema if it does not already exist. Idempotent,
// safe to call on every startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
