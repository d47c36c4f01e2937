package m_kv

import "time"

// Data represents one row of the kv_store table.
type Data struct {
	StorageKey string
	Value      []byte
	UpdatedAt  time.Time
}
