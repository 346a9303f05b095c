package sim

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_WrappedSentinelsStayClassifiable(t *testing.T) {
	sentinels := []error{ErrValidation, ErrNotFound, ErrStateConflict, ErrResourceExhausted}
	for _, s := range sentinels {
		wrapped := fmt.Errorf("process 7: %w", s)
		assert.ErrorIs(t, wrapped, s)
		for _, other := range sentinels {
			if other != s {
				assert.False(t, errors.Is(wrapped, other), "%v must not match %v", wrapped, other)
			}
		}
	}
}
