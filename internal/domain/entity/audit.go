package entity

import "time"

// AuditInfo metadatos de auditoría embebidos en los agregados persistidos.
// Los marca la capa de persistencia en cada escritura con el usuario actuante;
// el dominio nunca los modifica.
type AuditInfo struct {
	CreatedAt time.Time
	CreatedBy string
	UpdatedAt time.Time
	UpdatedBy string
}
