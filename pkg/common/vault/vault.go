package vault

// Vault stores opaque records by id.
type Vault interface {
	// Import stores data under id. Existing records are never overwritten.
	Import(id string, data []byte) error
	Get(id string) ([]byte, error)
	Delete(id string) error
	// IDs returns the ids of all records in insertion order.
	IDs() []string
}
