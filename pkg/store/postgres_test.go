package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xhad/cdpask/internal/models"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	mock.ExpectPing()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS cdp_docs")).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	s, err := newPostgres(context.Background(), mock, PostgresConfig{})
	require.NoError(t, err)
	return s, mock
}

func TestPostgresStore_Initialize(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.Close()

	assert.Equal(t, "cdp_docs", s.config.TableName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InitializeError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	mock.ExpectPing()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS docs")).
		WillReturnError(errors.New("permission denied"))

	_, err = newPostgres(context.Background(), mock, PostgresConfig{TableName: "docs"})
	assert.ErrorContains(t, err, "failed to create table")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PingError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	_, err = newPostgres(context.Background(), mock, PostgresConfig{})
	assert.ErrorContains(t, err, "failed to reach database")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Upsert(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cdp_docs (platform, content)")).
		WithArgs("segment", "Segment docs").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.Upsert(context.Background(), models.PlatformDoc{Platform: models.Segment, Content: "Segment docs"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertSamePlatformTwice(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.Close()

	upsert := regexp.QuoteMeta("INSERT INTO cdp_docs (platform, content)") + `(?s).*` +
		regexp.QuoteMeta("ON CONFLICT (platform) DO UPDATE SET") + `(?s).*` +
		regexp.QuoteMeta("content = EXCLUDED.content")

	mock.ExpectExec(upsert).
		WithArgs("segment", "old docs").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(upsert).
		WithArgs("segment", "new docs").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ctx := context.Background()
	require.NoError(t, s.Upsert(ctx, models.PlatformDoc{Platform: models.Segment, Content: "old docs"}))
	require.NoError(t, s.Upsert(ctx, models.PlatformDoc{Platform: models.Segment, Content: "new docs"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertUsesOnConflict(t *testing.T) {
	s, _ := newMockStore(t)
	defer s.Close()

	sql := s.upsertSQL()
	assert.Contains(t, sql, "ON CONFLICT (platform) DO UPDATE SET")
	assert.Contains(t, sql, "content = EXCLUDED.content")
}

func TestPostgresStore_UpsertSanitizesContent(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cdp_docs")).
		WithArgs("lytics", "bad bytes").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.Upsert(context.Background(), models.PlatformDoc{Platform: models.Lytics, Content: "bad \xff\xfebytes"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertAll(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.Close()

	docs := []models.PlatformDoc{
		{Platform: models.Segment, Content: "a"},
		{Platform: models.MParticle, Content: ""},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cdp_docs")).
		WithArgs("segment", "a").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cdp_docs")).
		WithArgs("mparticle", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, s.UpsertAll(context.Background(), docs))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertAllRollsBackOnError(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cdp_docs")).
		WithArgs("segment", "a").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := s.UpsertAll(context.Background(), []models.PlatformDoc{{Platform: models.Segment, Content: "a"}})
	assert.ErrorContains(t, err, "failed to upsert segment")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Get(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT platform, content FROM cdp_docs WHERE platform = $1")).
		WithArgs("zeotap").
		WillReturnRows(pgxmock.NewRows([]string{"platform", "content"}).AddRow("zeotap", "Zeotap docs"))

	doc, err := s.Get(context.Background(), models.Zeotap)
	require.NoError(t, err)
	assert.Equal(t, models.PlatformDoc{Platform: models.Zeotap, Content: "Zeotap docs"}, doc)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT platform, content FROM cdp_docs WHERE platform = $1")).
		WithArgs("lytics").
		WillReturnError(pgx.ErrNoRows)

	_, err = s.Get(context.Background(), models.Lytics)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_List(t *testing.T) {
	s, mock := newMockStore(t)
	defer s.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT platform, content FROM cdp_docs ORDER BY platform")).
		WillReturnRows(pgxmock.NewRows([]string{"platform", "content"}).
			AddRow("lytics", "l").
			AddRow("segment", "s"))

	docs, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.PlatformDoc{
		{Platform: models.Lytics, Content: "l"},
		{Platform: models.Segment, Content: "s"},
	}, docs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSanitizeUTF8(t *testing.T) {
	assert.Equal(t, "valid ü", sanitizeUTF8("valid ü"))
	assert.Equal(t, "ab", sanitizeUTF8("a\xffb"))
}
