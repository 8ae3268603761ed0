package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
)

// MaxKeyLength bounds namespace and key length across all backends.
const MaxKeyLength = 200

// keyPattern allows the characters every backend can store verbatim in a
// row key, hash field or object name.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// StateStore persists JSON documents addressed by (namespace, key).
type StateStore interface {
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, namespace, key string, value any) error

	// Get decodes the value stored under key into dest.
	// Returns ErrNotFound if nothing is stored there.
	Get(ctx context.Context, namespace, key string, dest any) error

	// List returns every value in namespace keyed by key. An empty
	// namespace yields an empty map.
	List(ctx context.Context, namespace string) (map[string]json.RawMessage, error)
}

// ValidateNamespace checks that namespace is usable by every backend.
func ValidateNamespace(namespace string) error {
	return validatePart("namespace", namespace)
}

// ValidateKey checks that namespace and key are usable by every backend.
func ValidateKey(namespace, key string) error {
	if err := ValidateNamespace(namespace); err != nil {
		return err
	}
	return validatePart("key", key)
}

func validatePart(label, s string) error {
	if s == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidEntity, label)
	}
	if len(s) > MaxKeyLength {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidEntity, label, MaxKeyLength)
	}
	if !keyPattern.MatchString(s) {
		return fmt.Errorf("%w: %s %q contains unsupported characters", ErrInvalidEntity, label, s)
	}
	return nil
}

// Encode validates the address and marshals value. Backends call it first
// in Set.
func Encode(namespace, key string, value any) ([]byte, error) {
	if err := ValidateKey(namespace, key); err != nil {
		return nil, err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntity, err)
	}
	return data, nil
}

// Decode unmarshals a stored document into dest.
func Decode(namespace, key string, data []byte, dest any) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return NewStoreError(namespace, "get", fmt.Sprintf("failed to decode %s", key), err)
	}
	return nil
}
