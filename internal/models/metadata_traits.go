package models

// IdentityTrait carries the identity and optimistic-concurrency fields of
// aggregate roots and entities
type IdentityTrait struct {
	IdentityField string // name of the identity field
	VersionField  string // name of the concurrency-version field (optional)
}

// GetIdentityField returns the identity field name
func (t IdentityTrait) GetIdentityField() string {
	return t.IdentityField
}

// GetVersionField returns the concurrency-version field name
func (t IdentityTrait) GetVersionField() string {
	return t.VersionField
}
