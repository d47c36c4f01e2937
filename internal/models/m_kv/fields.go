package m_kv

// Field name constants for the kv_store table.
const (
	TableName = "kv_store"

	StorageKey = "storage_key"
	Value      = "value"
	UpdatedAt  = "updated_at"
)
