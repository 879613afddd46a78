package handlers

import (
	"testing"

	"github.com/Freeeeeet/agenda_bot/internal/controller/callbacks/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceChangesFor(t *testing.T) {
	changes, _, err := serviceChangesFor(common.FieldPrice, "$350,5")
	require.NoError(t, err)
	require.NotNil(t, changes.Price)
	assert.Equal(t, 35050, *changes.Price)
	assert.Nil(t, changes.Name)
	assert.Nil(t, changes.Duration)

	changes, _, err = serviceChangesFor(common.FieldDuration, "45")
	require.NoError(t, err)
	assert.Equal(t, 45, *changes.Duration)

	_, retry, err := serviceChangesFor(common.FieldDuration, "2")
	assert.ErrorIs(t, err, errFieldInput)
	assert.Contains(t, retry, "minutos")

	_, _, err = serviceChangesFor(common.FieldName, "X")
	assert.ErrorIs(t, err, errFieldInput)

	_, _, err = serviceChangesFor(common.FieldEmail, "x@example.com")
	assert.ErrorIs(t, err, common.ErrInvalidFormat)
}

func TestClientChangesFor(t *testing.T) {
	changes, _, err := clientChangesFor(common.FieldPhone, skipValue)
	require.NoError(t, err)
	require.NotNil(t, changes.Phone)
	assert.Empty(t, *changes.Phone)

	changes, _, err = clientChangesFor(common.FieldNotes, "prefiere mañanas")
	require.NoError(t, err)
	assert.Equal(t, "prefiere mañanas", *changes.Notes)

	// имя нельзя очистить
	_, _, err = clientChangesFor(common.FieldName, skipValue)
	assert.ErrorIs(t, err, errFieldInput)

	_, _, err = clientChangesFor(common.FieldPrice, "100")
	assert.ErrorIs(t, err, common.ErrInvalidFormat)
}
