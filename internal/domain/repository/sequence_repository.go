package repository

import "context"

// SequenceRepository serializa la generación de identificadores dentro de una transacción.
type SequenceRepository interface {
	// Lock toma un bloqueo asociado a key que se libera al terminar la transacción.
	Lock(ctx context.Context, key string) error
}
