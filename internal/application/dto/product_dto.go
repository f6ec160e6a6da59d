package dto

// ProductResponse salida de un producto del catálogo.
type ProductResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
