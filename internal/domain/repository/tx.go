package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Types     SupplyTypeRepository
	Supplies  SupplyRepository
	Stock     StockRepository
	Movements MovementRepository
	Orders    OrderRepository
	Sequences SequenceRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback
// en cualquier otro caso (stock, movimiento y pedido se escriben juntos o no se escriben).
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}
