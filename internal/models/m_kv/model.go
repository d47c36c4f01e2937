package m_kv

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the kv_store table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// UpsertMut creates a mutation writing value under key. updated_at is the
// commit timestamp.
func (m *Model) UpsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertOrUpdate(
		TableName,
		[]string{StorageKey, Value, UpdatedAt},
		[]interface{}{data.StorageKey, data.Value, spanner.CommitTimestamp},
	)
}

// DeleteMut creates a mutation removing key. Deleting a missing key is not an
// error in Spanner.
func (m *Model) DeleteMut(key string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{key})
}

// ReadColumns lists the columns FromRow expects, in order.
func ReadColumns() []string {
	return []string{StorageKey, Value, UpdatedAt}
}

// FromRow decodes a row selected with ReadColumns.
func FromRow(row *spanner.Row) (*Data, error) {
	var data Data
	if err := row.Columns(&data.StorageKey, &data.Value, &data.UpdatedAt); err != nil {
		return nil, err
	}
	return &data, nil
}
