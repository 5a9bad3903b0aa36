package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levis-creator/college-system-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestClassroomRepositoryListAndFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassroomRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "short_name", "created_at", "updated_at"}).
		AddRow(1, "Main Lab", "LAB-1", now, now).
		AddRow(2, "Lecture Hall", "LH-A", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, short_name, created_at, updated_at FROM classrooms ORDER BY id")).
		WillReturnRows(rows)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Main Lab", items[0].Name)

	row := sqlmock.NewRows([]string{"id", "name", "short_name", "created_at", "updated_at"}).
		AddRow(2, "Lecture Hall", "LH-A", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, short_name, created_at, updated_at FROM classrooms WHERE id = $1")).
		WithArgs(2).
		WillReturnRows(row)

	room, err := repo.FindByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "LH-A", room.ShortName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassroomRepositoryInsertReturnsGeneratedID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassroomRepository(db)

	mock.ExpectQuery("INSERT INTO classrooms").
		WithArgs("Main Lab", "LAB-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	room := &models.Classroom{Name: "Main Lab", ShortName: "LAB-1"}
	require.NoError(t, repo.Insert(context.Background(), room))
	assert.Equal(t, int64(7), room.ID)
	assert.False(t, room.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassroomRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassroomRepository(db)

	mock.ExpectExec("UPDATE classrooms").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 42, &models.Classroom{Name: "Main Lab", ShortName: "LAB-1"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassroomRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassroomRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM classrooms WHERE id = $1")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 7))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM classrooms WHERE id = $1")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 7), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassroomRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassroomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM classrooms WHERE id = $1 LIMIT 1")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	ok, err := repo.Exists(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM classrooms WHERE id = $1 LIMIT 1")).
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	ok, err = repo.Exists(context.Background(), 8)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassroomRepositoryFindRejectsUnknownColumn(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassroomRepository(db)

	_, err := repo.Find(context.Background(), map[string]interface{}{"owner": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown column")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassroomRepositoryFindByColumn(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassroomRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "short_name", "created_at", "updated_at"}).
		AddRow(1, "Main Lab", "LAB-1", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, short_name, created_at, updated_at FROM classrooms WHERE short_name = $1 ORDER BY id")).
		WithArgs("LAB-1").
		WillReturnRows(rows)

	items, err := repo.Find(context.Background(), map[string]interface{}{"short_name": "LAB-1"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Main Lab", items[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type recordingObserver struct {
	labels []string
}

func (o *recordingObserver) ObserveDBQuery(label string, duration time.Duration) {
	o.labels = append(o.labels, label)
}

func TestStoreInstrumentObservesQueries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewClassroomRepository(db)
	obs := &recordingObserver{}
	repo.Instrument(obs)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, short_name, created_at, updated_at FROM classrooms ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "short_name", "created_at", "updated_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM classrooms WHERE id = $1 LIMIT 1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	_, err := repo.List(context.Background())
	require.NoError(t, err)
	_, err = repo.Exists(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, []string{"classrooms.list", "classrooms.exists"}, obs.labels)
	assert.NoError(t, mock.ExpectationsWereMet())
}
