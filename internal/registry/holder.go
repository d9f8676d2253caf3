package registry

import "sync/atomic"

// Source supplies the model queries run against
type Source interface {
	Current() *DomainModel
}

// Holder publishes the current DomainModel. A new model replaces the old one
// by reference swap; readers never lock and never observe a partial model.
type Holder struct {
	current atomic.Pointer[DomainModel]
}

// NewHolder creates a holder publishing initial, or an empty model when nil
func NewHolder(initial *DomainModel) *Holder {
	h := &Holder{}
	if initial == nil {
		initial = Empty()
	}
	h.current.Store(initial)
	return h
}

// Current returns the published model
func (h *Holder) Current() *DomainModel {
	return h.current.Load()
}

// Swap publishes next and returns the model it replaced. A nil next is ignored.
func (h *Holder) Swap(next *DomainModel) *DomainModel {
	if next == nil {
		return h.current.Load()
	}
	return h.current.Swap(next)
}

// Rebuild runs build and publishes its model on success. On failure the
// current model stays published and the error is returned.
func (h *Holder) Rebuild(build func() (*DomainModel, error)) (*DomainModel, error) {
	next, err := build()
	if err != nil {
		return h.Current(), err
	}
	h.Swap(next)
	return next, nil
}
