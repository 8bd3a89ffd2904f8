package errors

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetail_DoesNotMutateSentinel(t *testing.T) {
	a := ErrNotFound.WithDetail("device_id", "dev-A")
	b := ErrNotFound.WithDetail("device_id", "dev-B")

	// Each derived error carries its own detail; the first one must not
	// see the second one's value.
	assert.Equal(t, "dev-A", a.Details["device_id"])
	assert.Equal(t, "dev-B", b.Details["device_id"])
	assert.Empty(t, ErrNotFound.Details)
}

func TestWithDetail_CopiesExistingDetails(t *testing.T) {
	base := ErrValidation.WithDetail("field", "port")
	derived := base.WithDetail("message", "out of range")

	assert.Equal(t, "port", derived.Details["field"])
	assert.Equal(t, "out of range", derived.Details["message"])
	assert.NotContains(t, base.Details, "message")
}

func TestWithDetail_ConcurrentDerivation(t *testing.T) {
	const workers = 8
	var wg sync.WaitGroup
	results := make([]*Error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ErrNotFound.WithDetail("device_id", fmt.Sprintf("dev-%d", i))
		}(i)
	}
	wg.Wait()

	for i, err := range results {
		assert.Equal(t, fmt.Sprintf("dev-%d", i), err.Details["device_id"])
	}
	assert.Empty(t, ErrNotFound.Details)
}

func TestWithCause_WrapsAndUnwraps(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := ErrInternal.WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Nil(t, ErrInternal.Cause)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound.WithDetail("device_id", "dev1")))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", ErrNotFound.WithCause(fmt.Errorf("gone")))))
	assert.False(t, IsNotFound(ErrValidation))
	assert.False(t, IsNotFound(fmt.Errorf("plain")))
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ToHTTPStatus(ErrNotFound))
	assert.Equal(t, http.StatusBadRequest, ToHTTPStatus(ErrValidation.WithDetail("field", "port")))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(fmt.Errorf("plain")))
}

func TestToErrorResponse(t *testing.T) {
	resp := ToErrorResponse(ErrValidation.WithDetail("message", "unknown event format"))
	require.Equal(t, "VALIDATION_ERROR", resp["error_code"])
	details, ok := resp["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "unknown event format", details["message"])

	resp = ToErrorResponse(fmt.Errorf("plain"))
	assert.Equal(t, "INTERNAL_ERROR", resp["error_code"])
}
