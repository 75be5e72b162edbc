package inventory

// ReorderQuantity calcula la cantidad sugerida de pedido (servicio de dominio).
//
//	pending = cantidad de pedidos VALIDATED / IN_TRANSIT
//	gap     = max(0, stockMax - (stock + pending))
//
// Fuera de alerta se sugiere gap. En alerta (stock <= umbral) se pide lo necesario para
// salir de ella, max(1, umbral - stock + 1), acotado por gap; si gap es 0 se fuerza ese
// mínimo aunque los pedidos en curso ya cubran el máximo.
func ReorderQuantity(stock, stockMax, alertThreshold, pending int) int {
	gap := stockMax - (stock + pending)
	if gap < 0 {
		gap = 0
	}
	if stock > alertThreshold {
		return gap
	}
	need := alertThreshold - stock + 1
	if need < 1 {
		need = 1
	}
	if gap == 0 || need < gap {
		return need
	}
	return gap
}
