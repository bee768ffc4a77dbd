package orders

import (
	"context"

	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita el coordinador de órdenes. Los cuatro sub-pasos
// de cada operación (reserva, append al ledger, proyección, estado de la
// orden) confirman o retroceden como una sola unidad: ningún estado
// intermedio es observable desde fuera.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		ledgerRepo repository.LedgerRepository,
		recordRepo repository.InventoryRecordRepository,
		orderRepo repository.OrderRepository,
	) error) error
}
