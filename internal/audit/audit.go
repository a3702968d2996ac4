/*
Package audit records events to the audit_log table. The account package
writes customer creation, account opening and account status transitions
through it; the ledger and transaction packages do not write audit rows.

The UnitOfWork type is reused from the ledger package rather than
redeclared. It is a narrow, domain-agnostic SQL handle (Exec/Query/
QueryRow), not specific to ledger semantics.
*/
package audit

import (
	"context"

	"github.com/warp/core-ledger/internal/ledger"
)

// Record appends one audit_log row. Failures are returned, not swallowed:
// callers decide whether a failed audit write should abort the surrounding
// unit of work.
func Record(ctx context.Context, uow ledger.UnitOfWork, entityType, entityID, action, detail string) error {
	_, err := uow.Exec(ctx,
		`INSERT INTO audit_log (entity_type, entity_id, action, detail) VALUES ($1, $2, $3, $4)`,
		entityType, entityID, action, detail,
	)
	return err
}
