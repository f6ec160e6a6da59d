package postgres

import (
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// stampAudit sella la auditoría antes de persistir: en la primera escritura
// fija Created*, en todas actualiza Updated*.
func stampAudit(a *entity.AuditInfo, actingUser string) {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
		a.CreatedBy = actingUser
	}
	a.UpdatedAt = now
	a.UpdatedBy = actingUser
}
