package fulfillment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/fulfillment"
)

func wh(id, name string, lat, lng float64) *entity.Warehouse {
	return &entity.Warehouse{ID: id, Name: name, Location: entity.Point{Lat: lat, Lng: lng}}
}

// TestNearest_BodegaUnica con una sola bodega dentro del radio, siempre la retorna.
func TestNearest_BodegaUnica(t *testing.T) {
	pioltello := wh("wh-1", "Pioltello", 45.511591, 9.32181)

	got, err := fulfillment.Nearest(entity.Point{Lat: 45.4642, Lng: 9.19}, []*entity.Warehouse{pioltello})

	require.NoError(t, err)
	assert.Same(t, pioltello, got)
}

// TestNearest_EligeLaMasCercana entre varias candidatas gana la de menor distancia.
func TestNearest_EligeLaMasCercana(t *testing.T) {
	warehouses := []*entity.Warehouse{
		wh("wh-1", "Torino", 45.0703, 7.6869),
		wh("wh-2", "Pioltello", 45.511591, 9.32181),
		wh("wh-3", "Bergamo", 45.6983, 9.6773),
	}

	got, err := fulfillment.Nearest(entity.Point{Lat: 45.4642, Lng: 9.19}, warehouses)

	require.NoError(t, err)
	assert.Equal(t, "Pioltello", got.Name)
}

// TestNearest_EmpateGanaLaPrimera dos bodegas en el mismo punto: gana la primera
// según el orden de entrada (selección estable).
func TestNearest_EmpateGanaLaPrimera(t *testing.T) {
	first := wh("wh-1", "Norte", 45.5, 9.3)
	twin := wh("wh-2", "Norte bis", 45.5, 9.3)

	got, err := fulfillment.Nearest(entity.Point{Lat: 45.49, Lng: 9.29}, []*entity.Warehouse{first, twin})

	require.NoError(t, err)
	assert.Same(t, first, got)
}

// TestNearest_SinBodegas lista vacía: ErrNoWarehouseAvailable.
func TestNearest_SinBodegas(t *testing.T) {
	_, err := fulfillment.Nearest(entity.Point{Lat: 45.5, Lng: 9.3}, nil)

	assert.ErrorIs(t, err, domain.ErrNoWarehouseAvailable)
}

// TestNearest_TodasDemasiadoLejos la más cercana supera los 150 km: el error
// reporta la candidata y su distancia como contexto.
func TestNearest_TodasDemasiadoLejos(t *testing.T) {
	pioltello := wh("wh-1", "Pioltello", 45.511591, 9.32181)

	_, err := fulfillment.Nearest(entity.Point{}, []*entity.Warehouse{pioltello})

	require.ErrorIs(t, err, domain.ErrWarehouseTooFar)
	var tooFar *domain.WarehouseTooFarError
	require.ErrorAs(t, err, &tooFar)
	assert.Same(t, pioltello, tooFar.Nearest)
	assert.Greater(t, tooFar.Distance, float64(fulfillment.MaxWarehouseDistance))
}

// TestNearest_EnElLimite el umbral se supera solo con distancia estrictamente
// mayor a 150 km: justo por debajo asigna, justo por encima rechaza. Los puntos
// van sobre el mismo meridiano (1° de latitud ≈ 111,19 km) para controlar la
// distancia con precisión.
func TestNearest_EnElLimite(t *testing.T) {
	near := wh("wh-1", "Cercana", 45.5, 9.3)

	// 1.348° al sur ≈ 149,9 km: dentro del radio por poco.
	under := entity.Point{Lat: 45.5 - 1.348, Lng: 9.3}
	require.Greater(t, under.Distance(near.Location), 149_000.0, "el fixture debe quedar pegado al umbral")
	require.LessOrEqual(t, under.Distance(near.Location), float64(fulfillment.MaxWarehouseDistance))

	got, err := fulfillment.Nearest(under, []*entity.Warehouse{near})
	require.NoError(t, err)
	assert.Same(t, near, got)

	// 1.352° al sur ≈ 150,3 km: primera distancia que supera el umbral.
	over := entity.Point{Lat: 45.5 - 1.352, Lng: 9.3}
	require.Greater(t, over.Distance(near.Location), float64(fulfillment.MaxWarehouseDistance))

	_, err = fulfillment.Nearest(over, []*entity.Warehouse{near})
	assert.ErrorIs(t, err, domain.ErrWarehouseTooFar)
}
