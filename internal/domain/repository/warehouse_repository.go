package repository

import "github.com/jhoicas/inventory-core/internal/domain/entity"

// WarehouseRepository define el puerto de lectura de bodegas (DIP).
// El CRUD completo lo posee un colaborador externo; aquí solo se valida
// existencia y bandera de actividad.
type WarehouseRepository interface {
	GetByID(id string) (*entity.Warehouse, error)
	List(limit, offset int) ([]*entity.Warehouse, error)
}
