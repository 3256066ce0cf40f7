package postgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// fakeRow copia values en los destinos del Scan, en orden.
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinos, %d valores", len(dest), len(r.values))
	}
	for i, v := range r.values {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}

// fakeQuerier solo implementa QueryRow.
type fakeQuerier struct {
	row fakeRow
}

func (q fakeQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("no implementado")
}

func (q fakeQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("no implementado")
}

func (q fakeQuerier) QueryRow(context.Context, string, ...any) pgx.Row { return q.row }

func strPtr(s string) *string { return &s }

func mentorRow(schoolID, pendingID *string) fakeRow {
	return fakeRow{values: []any{
		"m1", "u1", strPtr("c1"), "Ada Lovelace", "Acme", "Engineer", "",
		schoolID, pendingID, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}}
}

// ──────────────────────────────────────────────────────────────────────────────
// Códigos de error de PostgreSQL
// ──────────────────────────────────────────────────────────────────────────────

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("timeout")))
}

func TestIsInvalidText(t *testing.T) {
	assert.True(t, isInvalidText(&pgconn.PgError{Code: "22P02"}))
	assert.False(t, isInvalidText(errors.New("22P02")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de consulta y scan
// ──────────────────────────────────────────────────────────────────────────────

func TestGetOne_SinFilas_NilNil(t *testing.T) {
	q := fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}
	m, err := getOne(context.Background(), q, scanMentor, "get mentor", "SELECT 1")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestGetOne_IDNoUUID_NilNil(t *testing.T) {
	q := fakeQuerier{row: fakeRow{err: &pgconn.PgError{Code: "22P02"}}}
	m, err := getOne(context.Background(), q, scanMentor, "get mentor", "SELECT 1")
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestGetOne_ErrorEnvuelto(t *testing.T) {
	boom := errors.New("conexión cerrada")
	q := fakeQuerier{row: fakeRow{err: boom}}
	_, err := getOne(context.Background(), q, scanMentor, "get mentor", "SELECT 1")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "get mentor")
}

func TestScanMentor_VinculoColegio(t *testing.T) {
	m, err := scanMentor(mentorRow(strPtr("s1"), nil))
	require.NoError(t, err)
	assert.Equal(t, entity.SchoolLinkRegistered, m.School.Kind())
	require.NotNil(t, m.School.SchoolID())
	assert.Equal(t, "s1", *m.School.SchoolID())

	m, err = scanMentor(mentorRow(nil, strPtr("p1")))
	require.NoError(t, err)
	assert.Equal(t, entity.SchoolLinkPending, m.School.Kind())
	assert.Nil(t, m.School.SchoolID())

	m, err = scanMentor(mentorRow(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, entity.SchoolLinkUnassigned, m.School.Kind())
}

func TestScanMentor_AmbasColumnas_Error(t *testing.T) {
	_, err := scanMentor(mentorRow(strPtr("s1"), strPtr("p1")))
	assert.Error(t, err)
}

func TestLikeEscaper(t *testing.T) {
	assert.Equal(t, `100\%`, likeEscaper.Replace("100%"))
	assert.Equal(t, `st\_mary`, likeEscaper.Replace("st_mary"))
	assert.Equal(t, `a\\b`, likeEscaper.Replace(`a\b`))
}

// ──────────────────────────────────────────────────────────────────────────────
// Migraciones embebidas
// ──────────────────────────────────────────────────────────────────────────────

func TestMigraciones_UpYDown(t *testing.T) {
	up, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	down, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)
	require.NotEmpty(t, up)
	assert.Len(t, down, len(up), "cada migración tiene su down")
}
