package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario.
// Una bodega inactiva rechaza movimientos nuevos pero conserva su historial.
type Warehouse struct {
	ID        string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
