package models

// IdentityAware is implemented by variants that have an identity field
type IdentityAware interface {
	GetIdentityField() string
	GetVersionField() string
}

// ReferenceCarrier is implemented by variants whose payload points at other descriptors
type ReferenceCarrier interface {
	VariantReferences() []MemberReference
}
