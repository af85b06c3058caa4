package utils

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/PranavPurwar/proguard-core/internal/errors"
)

// RegistryValidator checks an entry before it is stored. existing must not be modified.
type RegistryValidator[K comparable, V any] func(key K, value V, existing map[K]V) error

// Registry is a named map guarded by a RWMutex. Every insert runs the validators
// in order and the first failure rejects the entry.
type Registry[K cmp.Ordered, V any] struct {
	mu         sync.RWMutex
	name       string
	items      map[K]V
	validators []RegistryValidator[K, V]
}

// NewRegistry creates an empty registry. name prefixes error messages.
func NewRegistry[K cmp.Ordered, V any](name string, validators ...RegistryValidator[K, V]) *Registry[K, V] {
	return &Registry[K, V]{
		name:       name,
		items:      make(map[K]V),
		validators: validators,
	}
}

// Register validates and stores value under key
func (r *Registry[K, V]) Register(key K, value V) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, validator := range r.validators {
		if err := validator(key, value, r.items); err != nil {
			return errors.NewInvalidArgumentError(r.name, key, err.Error())
		}
	}
	r.items[key] = value
	return nil
}

// Get retrieves an item from the registry
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, exists := r.items[key]
	return value, exists
}

// Has checks if a key exists in the registry
func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[key]
	return exists
}

// Keys returns all keys in ascending order
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]K, 0, len(r.items))
	for key := range r.items {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Size returns the number of items in the registry
func (r *Registry[K, V]) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

// NotEmptyKey rejects the zero key
func NotEmptyKey[K cmp.Ordered, V any](keyDesc string) RegistryValidator[K, V] {
	return func(key K, _ V, _ map[K]V) error {
		var zero K
		if key == zero {
			return fmt.Errorf("%s cannot be empty", keyDesc)
		}
		return nil
	}
}

// NoDuplicate rejects keys that are already registered
func NoDuplicate[K comparable, V any](valueDesc string) RegistryValidator[K, V] {
	return func(key K, _ V, existing map[K]V) error {
		if _, exists := existing[key]; exists {
			return fmt.Errorf("%s '%v' is already registered", valueDesc, key)
		}
		return nil
	}
}
