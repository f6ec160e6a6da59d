package entity

// Roles de la aplicación para el guard RBAC.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User usuario de la API (registro/login con JWT).
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	Audit        AuditInfo
}
