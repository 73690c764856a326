package memo

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrKeyGeneration is returned when an argument cannot be turned into a key.
var ErrKeyGeneration = errors.New("failed to generate cache key")

// Hasher lets an argument type provide its own cache key.
type Hasher interface {
	Hash() string
}

// DefaultKey serializes the argument list, so 5 becomes "[5]" and
// struct{ID int}{1} becomes `[{"ID":1}]`. Map keys are sorted, which keeps
// the key deterministic.
func DefaultKey(arg any) (string, error) {
	b, err := json.Marshal([]any{arg})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrKeyGeneration, err)
	}
	return string(b), nil
}

// keyFunc picks the key strategy: an explicit generator, then Hasher, then DefaultKey.
func keyFunc[A any](gen func(A) string) func(A) (string, error) {
	if gen != nil {
		return func(arg A) (string, error) {
			return gen(arg), nil
		}
	}
	return func(arg A) (string, error) {
		if h, ok := any(arg).(Hasher); ok {
			return h.Hash(), nil
		}
		return DefaultKey(arg)
	}
}
