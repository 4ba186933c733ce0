package rls

import (
	"fmt"

	"gorm.io/gorm"
)

// WithTenant pins the current transaction to one organization for
// deployments that enable postgres row-level security policies.
func WithTenant(tx *gorm.DB, tenantID int64) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec(
		"SET LOCAL app.current_org_id = ?",
		fmt.Sprintf("%d", tenantID),
	).Error
}
