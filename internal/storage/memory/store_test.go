package memory

import (
	"context"
	"testing"

	"github.com/hongminglow/expense-tracker-be/internal/models"
	"github.com/hongminglow/expense-tracker-be/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(t *testing.T, username string, amount float64, date string) models.EntryFields {
	t.Helper()
	d, err := models.ParseDate(date)
	require.NoError(t, err)
	return models.EntryFields{Username: &username, Amount: &amount, Date: &d}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	created, err := s.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	_, err = s.CreateUser(ctx, models.User{Username: "alice", PasswordHash: "h2"})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	found, err := s.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h", found.PasswordHash)

	_, err = s.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestEntryLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	e, err := s.CreateEntry(ctx, models.Expense, fields(t, "alice", 10, "2024-01-02"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), e.ID)

	require.NoError(t, s.UpdateEntry(ctx, models.Expense, e.ID, fields(t, "bob", 12.5, "2024-01-03")))
	require.NoError(t, s.UpdateEntry(ctx, models.Expense, 99, fields(t, "ghost", 1, "2024-01-03")))

	list, err := s.ListEntries(ctx, models.Expense)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bob", list[0].Username)
	assert.Equal(t, 12.5, list[0].Amount)
	assert.Equal(t, "2024-01-03", list[0].Date.String())

	incomes, err := s.ListEntries(ctx, models.Income)
	require.NoError(t, err)
	assert.Empty(t, incomes, "ledgers are independent")
	assert.NotNil(t, incomes)

	require.NoError(t, s.DeleteEntry(ctx, models.Expense, e.ID))
	require.NoError(t, s.DeleteEntry(ctx, models.Expense, e.ID))

	next, err := s.CreateEntry(ctx, models.Expense, fields(t, "alice", 1, "2024-01-02"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.ID, "ids are not reused")
}

func TestNotNullColumns(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	f := fields(t, "alice", 1, "2024-01-02")
	f.Amount = nil
	_, err := s.CreateEntry(ctx, models.Income, f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"amount"`)

	err = s.UpdateEntry(ctx, models.Income, 1, models.EntryFields{})
	assert.NoError(t, err, "unknown id is a no-op even with missing fields")

	e, err := s.CreateEntry(ctx, models.Income, fields(t, "alice", 1, "2024-01-02"))
	require.NoError(t, err)
	err = s.UpdateEntry(ctx, models.Income, e.ID, models.EntryFields{Username: f.Username})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"amount"`)

	list, err := s.ListEntries(ctx, models.Income)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1.0, list[0].Amount, "failed update leaves the row untouched")
}

func TestAggregations(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for _, f := range []models.EntryFields{
		fields(t, "a", 5, "2024-01-03"),
		fields(t, "b", 2, "2024-01-01"),
		fields(t, "c", 3, "2024-01-03"),
		fields(t, "d", -1, "2024-01-02"),
	} {
		_, err := s.CreateEntry(ctx, models.Expense, f)
		require.NoError(t, err)
	}

	totals, err := s.DailyTotals(ctx, models.Expense)
	require.NoError(t, err)
	require.Len(t, totals, 3)
	assert.Equal(t, "2024-01-01", totals[0].Date.String())
	assert.Equal(t, 2.0, totals[0].Total)
	assert.Equal(t, -1.0, totals[1].Total)
	assert.Equal(t, "2024-01-03", totals[2].Date.String())
	assert.Equal(t, 8.0, totals[2].Total)

	series, err := s.Series(ctx, models.Expense)
	require.NoError(t, err)
	require.Len(t, series, 4)
	assert.Equal(t, []float64{2, -1, 5, 3}, []float64{series[0].Amount, series[1].Amount, series[2].Amount, series[3].Amount})

	empty, err := s.DailyTotals(ctx, models.Income)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUnknownKind(t *testing.T) {
	_, err := NewStore().ListEntries(context.Background(), models.Kind("transfer"))
	assert.ErrorIs(t, err, storage.ErrUnknownKind)
}
