package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/agenda_bot/internal/model"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	professionalCols = []string{"id", "telegram_id", "username", "first_name", "last_name", "language_code", "timezone", "work_schedule", "created_at"}
	appointmentCols  = []string{"id", "professional_id", "client_id", "service_id", "start_time", "end_time", "title", "status", "notes", "created_at", "updated_at"}
	serviceCols      = []string{"id", "professional_id", "name", "duration", "price", "buffer_time", "is_active", "created_at"}
	timeBlockCols    = []string{"id", "professional_id", "start_time", "end_time", "title", "created_at"}
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestProfessionalRepository_CreateStoresScheduleAsJSON(t *testing.T) {
	mock := newMock(t)
	repo := NewProfessionalRepository(mock)
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	p := &model.Professional{
		TelegramID:   777,
		Username:     "dra_lopez",
		FirstName:    "Ana",
		Timezone:     "Europe/Madrid",
		WorkSchedule: model.WorkSchedule{model.Monday: model.DefaultDaySchedule()},
	}

	mock.ExpectQuery("INSERT INTO professionals").
		WithArgs(int64(777), "dra_lopez", "Ana", "", "", "Europe/Madrid", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), created))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, int64(5), p.ID)
	assert.Equal(t, created, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfessionalRepository_GetByTelegramID(t *testing.T) {
	mock := newMock(t)
	repo := NewProfessionalRepository(mock)
	ctx := context.Background()

	schedule := []byte(`{"lunes":{"is_active":true,"work_hours":{"start":"10:00","end":"14:00"},"breaks":[]}}`)
	mock.ExpectQuery("FROM professionals WHERE telegram_id").
		WithArgs(int64(777)).
		WillReturnRows(pgxmock.NewRows(professionalCols).
			AddRow(int64(5), int64(777), "dra_lopez", "Ana", "López", "es", "", schedule, time.Now()))

	p, err := repo.GetByTelegramID(ctx, 777)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.True(t, p.HasSchedule())
	day := p.WorkSchedule.Day(model.Monday)
	assert.True(t, day.IsActive)
	assert.Equal(t, "10:00", day.WorkHours.Start)

	mock.ExpectQuery("FROM professionals WHERE telegram_id").
		WithArgs(int64(888)).
		WillReturnError(pgx.ErrNoRows)

	p, err = repo.GetByTelegramID(ctx, 888)
	require.NoError(t, err)
	assert.Nil(t, p)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfessionalRepository_NullScheduleMeansUnset(t *testing.T) {
	mock := newMock(t)
	repo := NewProfessionalRepository(mock)

	mock.ExpectQuery("FROM professionals WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows(professionalCols).
			AddRow(int64(5), int64(777), "", "Ana", "", "", "", []byte(nil), time.Now()))

	p, err := repo.GetByID(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, p.HasSchedule())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfessionalRepository_UpdateWorkScheduleNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewProfessionalRepository(mock)

	mock.ExpectExec("UPDATE professionals SET work_schedule").
		WithArgs(pgxmock.AnyArg(), int64(9)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateWorkSchedule(context.Background(), 9, model.WorkSchedule{})
	assert.EqualError(t, err, "professional not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_CreatePassesStatusAsText(t *testing.T) {
	mock := newMock(t)
	repo := NewAppointmentRepository(mock)
	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

	a := &model.Appointment{
		ProfessionalID: 5,
		ClientID:       3,
		ServiceID:      2,
		StartTime:      start,
		EndTime:        start.Add(time.Hour),
		Title:          "Consulta",
		Status:         model.AppointmentStatusConfirmed,
	}

	mock.ExpectQuery("INSERT INTO appointments").
		WithArgs(int64(5), int64(3), int64(2), start, start.Add(time.Hour), "Consulta", "confirmed", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), start, start))

	require.NoError(t, repo.Create(context.Background(), a))
	assert.Equal(t, int64(11), a.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_ListActiveSince(t *testing.T) {
	mock := newMock(t)
	repo := NewAppointmentRepository(mock)
	since := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM appointments a WHERE a.professional_id").
		WithArgs(int64(5), "cancelled", since).
		WillReturnRows(pgxmock.NewRows(appointmentCols).
			AddRow(int64(1), int64(5), int64(3), int64(2), start, start.Add(time.Hour), "Consulta", "pending", "", start, start).
			AddRow(int64(2), int64(5), int64(0), int64(0), start.Add(2*time.Hour), start.Add(3*time.Hour), "Revisión", "confirmed", "", start, start))

	list, err := repo.ListActiveSince(context.Background(), 5, since)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, model.AppointmentStatusPending, list[0].Status)
	assert.Equal(t, int64(0), list[1].ClientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_UpdateStatusNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewAppointmentRepository(mock)

	mock.ExpectExec("UPDATE appointments SET status").
		WithArgs("cancelled", int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), 99, model.AppointmentStatusCancelled)
	assert.EqualError(t, err, "appointment not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_DeleteCancelsFutureAppointments(t *testing.T) {
	mock := newMock(t)
	repo := NewClientRepository(mock)
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE appointments").
		WithArgs("cancelled", int64(3), now).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectExec("DELETE FROM clients").
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 3, now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_DeleteRollsBackOnError(t *testing.T) {
	mock := newMock(t)
	repo := NewClientRepository(mock)
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE appointments").
		WithArgs("cancelled", int64(3), now).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 3, now)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeBlockRepository_ListBetween(t *testing.T) {
	mock := newMock(t)
	repo := NewTimeBlockRepository(mock)
	from := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectQuery("FROM time_blocks").
		WithArgs(int64(5), from, to).
		WillReturnRows(pgxmock.NewRows(timeBlockCols).
			AddRow(int64(4), int64(5), from.Add(15*time.Hour), from.Add(16*time.Hour), model.DefaultBlockTitle, from))

	blocks, err := repo.ListBetween(context.Background(), 5, from, to)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, 60, blocks[0].DurationMinutes())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotStore_FetchScheduleUnknownProfessional(t *testing.T) {
	mock := newMock(t)
	store := NewSnapshotStore(mock)

	mock.ExpectQuery("FROM professionals WHERE id").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := store.FetchSchedule(context.Background(), 404)
	assert.ErrorIs(t, err, ErrProfessionalNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotStore_FetchAppointmentsFromDay(t *testing.T) {
	mock := newMock(t)
	store := NewSnapshotStore(mock)
	// запись двухнедельной давности: выборка начинается с её дня, а не с текущего момента
	day := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM appointments a WHERE a.professional_id").
		WithArgs(int64(5), "cancelled", day).
		WillReturnRows(pgxmock.NewRows(appointmentCols))

	list, err := store.FetchAppointments(context.Background(), 5, day)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotStore_FetchServiceDuration(t *testing.T) {
	tests := []struct {
		name string
		row  []any
		want int
	}{
		{
			name: "own active service",
			row:  []any{int64(2), int64(5), "Consulta", 45, 3000, 0, true, time.Now()},
			want: 45,
		},
		{
			name: "service of another professional",
			row:  []any{int64(2), int64(6), "Consulta", 45, 3000, 0, true, time.Now()},
			want: 0,
		},
		{
			name: "inactive service",
			row:  []any{int64(2), int64(5), "Consulta", 45, 3000, 0, false, time.Now()},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			store := NewSnapshotStore(mock)

			mock.ExpectQuery("FROM services WHERE id").
				WithArgs(int64(2)).
				WillReturnRows(pgxmock.NewRows(serviceCols).AddRow(tt.row...))

			got, err := store.FetchServiceDuration(context.Background(), 5, 2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
