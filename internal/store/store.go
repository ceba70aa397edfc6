package store

// Chaves dos quatro blobs JSON persistidos de forma independente
const (
	KeyTasks     = "zen_tasks"
	KeyShopping  = "zen_shopping"
	KeyInventory = "zen_inventory"
	KeySettings  = "zen_settings"
)

// Store é a porta de persistência chave-valor do estado do lar.
// Get retorna found=false para chave ausente; o chamador decide o default.
// Não há atomicidade entre chaves: cada Set é independente.
type Store interface {
	Get(key string) (value []byte, found bool, err error)
	Set(key string, value []byte) error
	Close() error
}
