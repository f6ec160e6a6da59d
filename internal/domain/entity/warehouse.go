package entity

// Warehouse bodega desde la que se despachan pedidos. Location es el punto
// usado por la asignación de bodega más cercana.
type Warehouse struct {
	ID       string
	Name     string
	Location Point
	Audit    AuditInfo
}
