package utils_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicconnect/models"
	"clinicconnect/testutil"
	"clinicconnect/utils"
)

func registration() models.RegistrationForm {
	return models.RegistrationForm{
		Username:  "jdoe",
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Password:  "SecureP@ss123",
		Confirm:   "SecureP@ss123",
	}
}

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)

	id, err := utils.RegisterUser(ctx, db, registration())
	require.NoError(t, err)
	assert.Positive(t, id)

	u, err := utils.GetUserByUsername(ctx, db, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "Jane", u.FirstName)
	assert.NotEqual(t, "SecureP@ss123", u.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("SecureP@ss123", u.PasswordHash))
}

func TestRegisterUserSanitizesInput(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)

	f := registration()
	f.Username = "  <b>jdoe</b> "
	_, err := utils.RegisterUser(ctx, db, f)
	require.NoError(t, err)

	_, err = utils.GetUserByUsername(ctx, db, "jdoe")
	assert.NoError(t, err)
}

func TestRegisterUserRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)

	_, err := utils.RegisterUser(ctx, db, registration())
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*models.RegistrationForm)
	}{
		{name: "same username", mutate: func(f *models.RegistrationForm) { f.Email = "other@example.com" }},
		{name: "same email", mutate: func(f *models.RegistrationForm) { f.Username = "other" }},
		{name: "same email, other case", mutate: func(f *models.RegistrationForm) {
			f.Username = "other"
			f.Email = "Jane@Example.COM"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := registration()
			tt.mutate(&f)
			_, err := utils.RegisterUser(ctx, db, f)

			var cerr *utils.ConflictError
			require.True(t, errors.As(err, &cerr))
			assert.Equal(t, "Username or email already registered.", cerr.Message)
		})
	}
}

func TestRegisterUserValidationStopsBeforeStore(t *testing.T) {
	db := testutil.OpenDB(t)

	f := registration()
	f.Confirm = "mismatch"
	_, err := utils.RegisterUser(context.Background(), db, f)

	msgs, ok := utils.FlashMessages(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Passwords do not match."}, msgs)

	exists, err := utils.UserExists(context.Background(), db, "jdoe", "jane@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAuthenticateUser(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)

	_, err := utils.RegisterUser(ctx, db, registration())
	require.NoError(t, err)

	u, err := utils.AuthenticateUser(ctx, db, models.LoginForm{Username: " jdoe ", Password: "SecureP@ss123"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)

	snap := u.Snapshot()
	assert.Equal(t, u.ID, snap.ID)
	assert.Equal(t, "jdoe", snap.Username)
}

func TestAuthenticateUserSameErrorForUnknownAndWrong(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)

	_, err := utils.RegisterUser(ctx, db, registration())
	require.NoError(t, err)

	_, wrongPassword := utils.AuthenticateUser(ctx, db, models.LoginForm{Username: "jdoe", Password: "Nope123!x"})
	_, unknownUser := utils.AuthenticateUser(ctx, db, models.LoginForm{Username: "ghost", Password: "SecureP@ss123"})

	for _, err := range []error{wrongPassword, unknownUser} {
		var aerr *utils.AuthError
		require.True(t, errors.As(err, &aerr))
		msgs, ok := utils.FlashMessages(err)
		require.True(t, ok)
		assert.Equal(t, []string{"Invalid username or password."}, msgs)
	}
}
