package entity

// Product producto del catálogo. El nombre es la clave de búsqueda externa
// (match exacto, sensible a mayúsculas) en pedidos y disponibilidad.
type Product struct {
	ID   string
	Name string
}
