package store

import (
	"errors"
	"fmt"

	"github.com/dotcommander/kvd/internal/models"
)

// RecoverableError is an alias for models.RecoverableError, retained so
// callers can reference store.RecoverableError without importing models.
type RecoverableError = models.RecoverableError

// Sentinel errors for errors.Is checks across package boundaries.
var (
	ErrKeyNotFound      = errors.New("key not found")
	ErrNotIncrementable = errors.New("value is not incrementable")
)

// KeyNotFoundError reports an operation that requires an existing record
// (EXPIRE, TTL) against an absent key.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string     { return "key not found" }
func (e *KeyNotFoundError) ErrorCode() string { return "KEY_NOT_FOUND" }
func (e *KeyNotFoundError) Context() map[string]string {
	return map[string]string{"key": e.Key}
}
func (e *KeyNotFoundError) SuggestedAction() string {
	return fmt.Sprintf("create the key first: kvd set --key %s --value <value>", e.Key)
}
func (e *KeyNotFoundError) Is(target error) bool { return target == ErrKeyNotFound }

// NotIncrementableError reports INCR/DECR against a non-numeric value.
type NotIncrementableError struct {
	Key string
}

func (e *NotIncrementableError) Error() string {
	return "provided key's value is not incrementable"
}
func (e *NotIncrementableError) ErrorCode() string { return "NOT_INCREMENTABLE" }
func (e *NotIncrementableError) Context() map[string]string {
	return map[string]string{"key": e.Key}
}
func (e *NotIncrementableError) SuggestedAction() string {
	return fmt.Sprintf("overwrite the key with an integer value: kvd set --key %s --value 0", e.Key)
}
func (e *NotIncrementableError) Is(target error) bool { return target == ErrNotIncrementable }
