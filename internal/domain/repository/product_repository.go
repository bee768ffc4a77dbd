package repository

import "github.com/jhoicas/inventory-core/internal/domain/entity"

// ProductRepository define el puerto de lectura de productos (DIP).
// El CRUD completo lo posee el servicio de catálogo; este núcleo solo
// necesita validar existencia y estado.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
}
