package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := Invalid("quantity", "quantity must be positive")
	require.EqualError(t, err, "quantity: quantity must be positive")

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "quantity", ve.Field)
}

func TestUserSafeMessage(t *testing.T) {
	require.Empty(t, UserSafeMessage(nil))
	require.Equal(t, "record not found", UserSafeMessage(fmt.Errorf("lookup: %w", ErrNotFound)))
	require.Equal(t, "incorrect username or password", UserSafeMessage(ErrInvalidCredentials))
	require.Equal(t, "operation not permitted", UserSafeMessage(ErrForbidden))
	require.Equal(t, "quantity must be positive",
		UserSafeMessage(Invalid("quantity", "quantity must be positive")))
	require.Equal(t, "operation failed", UserSafeMessage(errors.New("disk full")))
}
