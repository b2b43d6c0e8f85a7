package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gviz/chart"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sample(t *testing.T) *chart.Wrapper {
	t.Helper()
	w := chart.New(chart.WithContainerID("sales"))
	w.SetChartType("ColumnChart")
	require.NoError(t, w.SetDataTableArray([][]any{{"Year", "Sales"}, {"2020", 1170}, {"2021", 660}}))
	w.SetOption("legend.position", "bottom")
	return w
}

func TestStore_SaveLoadListDelete(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	require.NoError(t, s.Save(ctx, "sales", sample(t)))
	w, err := s.Load(ctx, "sales")
	require.NoError(t, err)
	assert.Equal(t, "ColumnChart", w.ChartType())
	assert.Equal(t, "sales", w.ContainerID())
	assert.Equal(t, "bottom", w.Options().GetString("legend.position"))
	assert.Equal(t, 2, w.DataTable().NumberOfRows())

	// saving again replaces
	w.SetChartType("BarChart")
	require.NoError(t, s.Save(ctx, "sales", w))
	require.NoError(t, s.Save(ctx, "another", sample(t)))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "another", list[0].Name)
	assert.Equal(t, "sales", list[1].Name)
	assert.Equal(t, "BarChart", list[1].ChartType)
	assert.False(t, list[1].UpdatedAt.IsZero())

	require.NoError(t, s.Delete(ctx, "sales"))
	_, err = s.Load(ctx, "sales")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.Delete(ctx, "sales"), ErrNotFound))
}

func TestStore_SaveRejectsEmptyName(t *testing.T) {
	s := openMemory(t)
	assert.Error(t, s.Save(context.Background(), "", sample(t)))
}

func TestStore_SQLMock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS charts")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s, err := New(context.Background(), db)
	require.NoError(t, err)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	w := sample(t)
	spec, err := w.ToJSON()
	require.NoError(t, err)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO charts")).
		WithArgs("sales", "ColumnChart", spec, fixed).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, s.Save(context.Background(), "sales", w))

	mock.ExpectQuery(regexp.QuoteMeta(loadQuery)).
		WithArgs("sales").
		WillReturnRows(sqlmock.NewRows([]string{"spec"}).AddRow(spec))
	back, err := s.Load(context.Background(), "sales")
	require.NoError(t, err)
	assert.Equal(t, "ColumnChart", back.ChartType())

	mock.ExpectQuery(regexp.QuoteMeta(loadQuery)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"spec"}))
	_, err = s.Load(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.True(t, errors.Is(s.Delete(context.Background(), "gone"), ErrNotFound))

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO charts")).
		WillReturnError(errors.New("disk full"))
	assert.ErrorContains(t, s.Save(context.Background(), "x", w), "disk full")

	assert.NoError(t, mock.ExpectationsWereMet())
}
