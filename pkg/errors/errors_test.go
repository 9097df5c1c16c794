package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyErrorUnwrap(t *testing.T) {
	err := NewKeyError("set", "cache.notes.physics-kinematics", ErrStoreFailed)

	assert.True(t, errors.Is(err, ErrStoreFailed))
	assert.True(t, IsStoreError(fmt.Errorf("wrapped: %w", err)))
	assert.Equal(t, "set cache.notes.physics-kinematics: cache: store operation failed", err.Error())

	var keyErr *KeyError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &keyErr))
	assert.Equal(t, "set", keyErr.Op)
}

func TestKeyErrorWithoutOp(t *testing.T) {
	err := &KeyError{Key: "k", Err: ErrEmptyKey}
	assert.Equal(t, "cache: key is empty: k", err.Error())
}

func TestClassificationHelpers(t *testing.T) {
	assert.True(t, IsSerializationError(ErrSerializationFailed))
	assert.True(t, IsSerializationError(fmt.Errorf("x: %w", ErrDeserializationFailed)))
	assert.False(t, IsSerializationError(ErrStoreFailed))

	assert.True(t, IsValueTooLarge(ErrValueTooLarge))
	assert.True(t, IsInvalidConfig(ErrEncryptionUnsupported))
	assert.True(t, IsInvalidConfig(ErrInvalidConfig))
	assert.True(t, IsGenerationError(ErrNoResponse))
	assert.True(t, IsGenerationError(fmt.Errorf("quiz: %w", ErrInvalidResponse)))
	assert.False(t, IsGenerationError(ErrStoreFailed))
}
