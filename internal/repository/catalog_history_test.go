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
	invitationCols = []string{"id", "code", "created_by", "used_by_telegram_id", "used_at", "created_at"}
	historyCols    = []string{"id", "professional_id", "entity_type", "entity_id", "action", "field", "old_value", "new_value", "created_at"}
)

func TestInvitationRepository_MarkUsed(t *testing.T) {
	mock := newMock(t)
	repo := NewInvitationRepository(mock)
	ctx := context.Background()

	mock.ExpectQuery("UPDATE invitations").
		WithArgs("ABCDE-FGHIJ", int64(800)).
		WillReturnRows(pgxmock.NewRows([]string{"created_by"}).AddRow(int64(5)))

	createdBy, ok, err := repo.MarkUsed(ctx, "ABCDE-FGHIJ", 800)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(5), createdBy)

	// уже использованный код не обновляет строк
	mock.ExpectQuery("UPDATE invitations").
		WithArgs("ABCDE-FGHIJ", int64(801)).
		WillReturnError(pgx.ErrNoRows)

	_, ok, err = repo.MarkUsed(ctx, "ABCDE-FGHIJ", 801)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_ListPending(t *testing.T) {
	mock := newMock(t)
	repo := NewInvitationRepository(mock)
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM invitations").
		WithArgs(int64(5)).
		WillReturnRows(pgxmock.NewRows(invitationCols).
			AddRow(int64(2), "ZZZZZ-22222", int64(5), (*int64)(nil), (*time.Time)(nil), created))

	invs, err := repo.ListPending(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, invs, 1)
	assert.False(t, invs[0].IsUsed())
	assert.Nil(t, invs[0].UsedByTelegramID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_CreateAndExists(t *testing.T) {
	mock := newMock(t)
	repo := NewInvitationRepository(mock)
	ctx := context.Background()
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ABCDE-FGHIJ").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("INSERT INTO invitations").
		WithArgs("ABCDE-FGHIJ", int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), created))

	exists, err := repo.CodeExists(ctx, "ABCDE-FGHIJ")
	require.NoError(t, err)
	assert.False(t, exists)

	inv := &model.Invitation{Code: "ABCDE-FGHIJ", CreatedBy: 5}
	require.NoError(t, repo.Create(ctx, inv))
	assert.Equal(t, int64(9), inv.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfessionalRepository_Count(t *testing.T) {
	mock := newMock(t)
	repo := NewProfessionalRepository(mock)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_AddWritesEveryFieldInOneTx(t *testing.T) {
	mock := newMock(t)
	repo := NewHistoryRepository(mock)

	entries := []model.ChangeEntry{
		{ProfessionalID: 1, EntityType: model.EntityClient, EntityID: 21, Action: model.ActionUpdated, Field: "phone", OldValue: "1", NewValue: "2"},
		{ProfessionalID: 1, EntityType: model.EntityClient, EntityID: 21, Action: model.ActionUpdated, Field: "notes", NewValue: "vip"},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO change_history").
		WithArgs(int64(1), "client", int64(21), "updated", "phone", "1", "2").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO change_history").
		WithArgs(int64(1), "client", int64(21), "updated", "notes", "", "vip").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Add(context.Background(), entries))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_AddRollsBackOnError(t *testing.T) {
	mock := newMock(t)
	repo := NewHistoryRepository(mock)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO change_history").WillReturnError(boom)
	mock.ExpectRollback()

	err := repo.Add(context.Background(), []model.ChangeEntry{{ProfessionalID: 1, EntityType: model.EntityService, EntityID: 3, Action: model.ActionCreated}})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())

	// пустой список не открывает транзакцию
	require.NoError(t, repo.Add(context.Background(), nil))
}

func TestHistoryRepository_List(t *testing.T) {
	mock := newMock(t)
	repo := NewHistoryRepository(mock)
	at := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM change_history").
		WithArgs("service", int64(3), 20).
		WillReturnRows(pgxmock.NewRows(historyCols).
			AddRow(int64(7), int64(1), "service", int64(3), "updated", "price", "30000", "35000", at))

	entries, err := repo.List(context.Background(), model.EntityService, 3, 20)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionUpdated, entries[0].Action)
	assert.Equal(t, model.EntityService, entries[0].EntityType)
	assert.Equal(t, "35000", entries[0].NewValue)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepository_Update(t *testing.T) {
	mock := newMock(t)
	repo := NewClientRepository(mock)

	mock.ExpectExec("UPDATE clients").
		WithArgs("Lucía", "", "555-0202", "", int64(21)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	c := &model.Client{ID: 21, Name: "Lucía", Phone: "555-0202"}
	require.NoError(t, repo.Update(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}
