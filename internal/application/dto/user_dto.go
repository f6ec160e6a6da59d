package dto

// RegisterRequest entrada de registro de usuario.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=4,max=60"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"` // vacío = USER
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token de acceso emitido tras un login correcto.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}
