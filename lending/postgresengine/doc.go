// Package postgresengine provides the Postgres-backed lending store.
//
// It supports multiple database libraries (pgx.Pool, sql.DB, sqlx.DB) through
// constructor functions while keeping a single implementation of every
// consistency guarantee the engine relies on:
//
//   - copy reservation and release are single conditional UPDATEs on the
//     books counters, validated through RowsAffected
//   - the duplicate-request guard is a conditional INSERT ... SELECT ...
//     WHERE NOT EXISTS over open loans for the (student, book) pair; the
//     duplicate-fine guard is an INSERT ... ON CONFLICT DO NOTHING against a
//     partial unique index on active fines. The partial unique index on open
//     loans stays in the schema as the race backstop; a violation there
//     surfaces as a storage error, not as a duplicate request
//   - the issue and return transitions run in one transaction that locks the
//     student row (serializing approvals per student) and the book row
//     before re-checking eligibility and moving the counters
//
// Expected schema:
//
//	CREATE TABLE books (
//	    id               UUID PRIMARY KEY,
//	    total_copies     INTEGER NOT NULL CHECK (total_copies >= 0),
//	    available_copies INTEGER NOT NULL,
//	    CHECK (available_copies >= 0 AND available_copies <= total_copies)
//	);
//
//	CREATE TABLE students (
//	    id             UUID PRIMARY KEY,
//	    account_status TEXT NOT NULL DEFAULT 'active',
//	    max_books      INTEGER NOT NULL DEFAULT 0
//	);
//
//	CREATE TABLE loans (
//	    id           UUID PRIMARY KEY,
//	    student_id   UUID NOT NULL REFERENCES students (id),
//	    book_id      UUID NOT NULL REFERENCES books (id),
//	    status       TEXT NOT NULL,
//	    requested_at TIMESTAMPTZ NOT NULL,
//	    issued_at    TIMESTAMPTZ,
//	    due_at       TIMESTAMPTZ,
//	    returned_at  TIMESTAMPTZ
//	);
//
//	CREATE UNIQUE INDEX loans_one_open_per_pair
//	    ON loans (student_id, book_id)
//	    WHERE status IN ('requested', 'issued');
//
//	CREATE TABLE fines (
//	    id          UUID PRIMARY KEY,
//	    loan_id     UUID REFERENCES loans (id),
//	    student_id  UUID NOT NULL REFERENCES students (id),
//	    amount      NUMERIC(12,2) NOT NULL CHECK (amount >= 0),
//	    reason      TEXT NOT NULL DEFAULT '',
//	    status      TEXT NOT NULL DEFAULT 'unpaid',
//	    issued_date TIMESTAMPTZ NOT NULL,
//	    due_date    TIMESTAMPTZ,
//	    paid_date   TIMESTAMPTZ
//	);
//
//	CREATE UNIQUE INDEX fines_one_active_per_loan
//	    ON fines (loan_id)
//	    WHERE loan_id IS NOT NULL AND status <> 'waived';
//
// loan_id is nullable on purpose: manual fines reference no loan, and the
// store never fabricates placeholder loans to satisfy the schema.
package postgresengine
