package utils

import (
	"fmt"
	"sync"
)

// RegistryValidator is a function that validates a key-value pair before registration
type RegistryValidator[K comparable, V any] func(key K, value V, existing map[K]V) error

// BaseRegistry is a generic, thread-safe keyed store that remembers
// registration order and runs validators before accepting an item
type BaseRegistry[K comparable, V any] struct {
	mu        sync.RWMutex
	items     map[K]V
	order     []K
	validator RegistryValidator[K, V]
	keyDesc   string // e.g. "type name", "package name"
}

// NewBaseRegistry creates a new registry describing its keys as keyDesc
func NewBaseRegistry[K comparable, V any](keyDesc string) *BaseRegistry[K, V] {
	return &BaseRegistry[K, V]{
		items:   make(map[K]V),
		keyDesc: keyDesc,
	}
}

// SetValidator sets the validation function for this registry
func (r *BaseRegistry[K, V]) SetValidator(validator RegistryValidator[K, V]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validator = validator
}

// Register adds an item after validation. Validator errors are returned
// unchanged so callers can classify them.
func (r *BaseRegistry[K, V]) Register(key K, value V) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.validator != nil {
		if err := r.validator(key, value, r.items); err != nil {
			return err
		}
	}

	if _, exists := r.items[key]; !exists {
		r.order = append(r.order, key)
	}
	r.items[key] = value
	return nil
}

// Get retrieves an item from the registry
func (r *BaseRegistry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, exists := r.items[key]
	return value, exists
}

// GetOrError retrieves an item or returns an error if not found
func (r *BaseRegistry[K, V]) GetOrError(key K) (V, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, exists := r.items[key]
	if !exists {
		var zero V
		return zero, fmt.Errorf("%s '%v' is not registered", r.keyDesc, key)
	}
	return value, nil
}

// Has checks if a key exists in the registry
func (r *BaseRegistry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[key]
	return exists
}

// Keys returns all keys in registration order
func (r *BaseRegistry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]K, len(r.order))
	copy(keys, r.order)
	return keys
}

// Snapshot returns a copy of all items
func (r *BaseRegistry[K, V]) Snapshot() map[K]V {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[K]V, len(r.items))
	for k, v := range r.items {
		result[k] = v
	}
	return result
}

// Size returns the number of items in the registry
func (r *BaseRegistry[K, V]) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

// ForEach applies a function to each item in registration order
func (r *BaseRegistry[K, V]) ForEach(fn func(K, V)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, k := range r.order {
		fn(k, r.items[k])
	}
}

// NotEmptyKeyValidator validates that a string key is not empty
func NotEmptyKeyValidator[V any](onEmpty func() error) RegistryValidator[string, V] {
	return func(key string, value V, existing map[string]V) error {
		if key == "" {
			return onEmpty()
		}
		return nil
	}
}

// NoDuplicateValidator validates that a key doesn't already exist
func NoDuplicateValidator[K comparable, V any](onDuplicate func(K) error) RegistryValidator[K, V] {
	return func(key K, value V, existing map[K]V) error {
		if _, exists := existing[key]; exists {
			return onDuplicate(key)
		}
		return nil
	}
}

// ChainValidators combines multiple validators into one
func ChainValidators[K comparable, V any](validators ...RegistryValidator[K, V]) RegistryValidator[K, V] {
	return func(key K, value V, existing map[K]V) error {
		for _, validator := range validators {
			if validator != nil {
				if err := validator(key, value, existing); err != nil {
					return err
				}
			}
		}
		return nil
	}
}
