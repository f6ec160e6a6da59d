package entity

import "math"

// Radio de la Tierra en kilómetros para la fórmula de haversine.
const earthRadiusKm = 6371

// Point coordenada geográfica (latitud/longitud en grados decimales). Valor inmutable.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Distance distancia ortodrómica en metros hacia otro punto (fórmula de haversine).
// Simétrica: p.Distance(q) == q.Distance(p); cero para puntos iguales.
func (p Point) Distance(other Point) float64 {
	latDistance := toRadians(p.Lat - other.Lat)
	lngDistance := toRadians(p.Lng - other.Lng)

	a := math.Sin(latDistance/2)*math.Sin(latDistance/2) +
		math.Cos(toRadians(other.Lat))*math.Cos(toRadians(p.Lat))*
			math.Sin(lngDistance/2)*math.Sin(lngDistance/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	// km -> metros
	return earthRadiusKm * c * 1000
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
