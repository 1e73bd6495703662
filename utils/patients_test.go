package utils_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicconnect/models"
	"clinicconnect/testutil"
	"clinicconnect/utils"
)

func TestAddPatient(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)

	id, err := utils.AddPatient(ctx, db, models.PatientForm{
		Name:  " Ann Lee ",
		Email: "ann@example.com",
		Phone: "   ",
		DOB:   "1990-04-01",
	})
	require.NoError(t, err)

	p, err := utils.GetPatient(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", p.Name)
	assert.Equal(t, "1990-04-01", p.DOB)
	assert.Empty(t, p.Phone)
	assert.False(t, p.CreatedAt.IsZero())

	var phone sql.NullString
	require.NoError(t, db.QueryRow("SELECT phone FROM patients WHERE patient_id = $1", id).Scan(&phone))
	assert.False(t, phone.Valid, "blank phone should be stored as NULL")
}

func TestAddPatientDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	testutil.SeedPatient(t, db, "Ann Lee", "ann@example.com")

	for _, email := range []string{"ann@example.com", "ANN@Example.com"} {
		_, err := utils.AddPatient(ctx, db, models.PatientForm{Name: "Other", Email: email, DOB: "2000-01-01"})

		var cerr *utils.ConflictError
		require.True(t, errors.As(err, &cerr), email)
		assert.Equal(t, "Email already registered as a patient.", cerr.Message)
	}

	patients, err := utils.ListPatients(ctx, db)
	require.NoError(t, err)
	assert.Len(t, patients, 1)
}

func TestAddPatientValidation(t *testing.T) {
	_, err := utils.AddPatient(context.Background(), testutil.OpenDB(t), models.PatientForm{Email: "bad"})

	msgs, ok := utils.FlashMessages(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Name is required.", "Invalid email format.", "Date of birth is required."}, msgs)
}

func TestListPatientsNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)

	first := testutil.SeedPatient(t, db, "Zed", "zed@example.com")
	second := testutil.SeedPatient(t, db, "Amy", "amy@example.com")

	patients, err := utils.ListPatients(ctx, db)
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, second, patients[0].ID)
	assert.Equal(t, first, patients[1].ID)

	options, err := utils.ListPatientOptions(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []models.PatientOption{{ID: second, Name: "Amy"}, {ID: first, Name: "Zed"}}, options)
}

func TestListPatientsEmpty(t *testing.T) {
	patients, err := utils.ListPatients(context.Background(), testutil.OpenDB(t))
	require.NoError(t, err)
	assert.NotNil(t, patients)
	assert.Empty(t, patients)
}
