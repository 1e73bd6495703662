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

func TestAddAppointment(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	pid := testutil.SeedPatient(t, db, "Ann Lee", "ann@example.com")

	a, err := utils.AddAppointment(ctx, db, models.AppointmentForm{
		PatientID: itoa(pid),
		Date:      "2025-03-01",
		Time:      "09:30",
		Type:      "Checkup",
	})
	require.NoError(t, err)
	assert.Positive(t, a.ID)
	assert.Equal(t, pid, a.PatientID)

	list, err := utils.ListAppointments(ctx, db)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ann Lee", list[0].PatientName)
	assert.Empty(t, list[0].Notes)
}

func TestAddAppointmentUnknownPatient(t *testing.T) {
	_, err := utils.AddAppointment(context.Background(), testutil.OpenDB(t), models.AppointmentForm{
		PatientID: "999",
		Date:      "2025-03-01",
		Time:      "09:30",
		Type:      "Checkup",
	})

	var perr *utils.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "Could not add appointment.", perr.Message)
}

func TestAddAppointmentValidation(t *testing.T) {
	db := testutil.OpenDB(t)

	tests := []struct {
		name string
		form models.AppointmentForm
		want []string
	}{
		{
			name: "missing fields",
			form: models.AppointmentForm{Type: "Checkup"},
			want: []string{"Please select a patient.", "Appointment date is required.", "Appointment time is required."},
		},
		{
			name: "non-numeric patient",
			form: models.AppointmentForm{PatientID: "abc", Date: "2025-03-01", Time: "09:30", Type: "Checkup"},
			want: []string{"Please select a patient."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := utils.AddAppointment(context.Background(), db, tt.form)
			msgs, ok := utils.FlashMessages(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, msgs)
		})
	}
}

func TestListAppointmentsOrdering(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	pid := testutil.SeedPatient(t, db, "Ann Lee", "ann@example.com")

	for _, slot := range [][2]string{
		{"2025-03-02", "08:00"},
		{"2025-03-01", "14:00"},
		{"2025-03-01", "09:00"},
	} {
		_, err := utils.AddAppointment(ctx, db, models.AppointmentForm{
			PatientID: itoa(pid), Date: slot[0], Time: slot[1], Type: "Checkup",
		})
		require.NoError(t, err)
	}

	list, err := utils.ListAppointments(ctx, db)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"09:00", "14:00", "08:00"}, []string{list[0].Time, list[1].Time, list[2].Time})
	assert.Equal(t, "2025-03-02", list[2].Date)
}
