package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mentoria-api/internal/application/invitation"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/infrastructure/memory"
)

func role(userID string, r entity.Role) *entity.RoleAssignment {
	return &entity.RoleAssignment{ID: "role-" + userID, UserID: userID, Role: r, CreatedAt: time.Now()}
}

func identity(id string) *entity.Identity {
	return &entity.Identity{ID: id, Email: id + "@example.com", PasswordHash: "x", CreatedAt: time.Now()}
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

func TestTxRunner_Commit(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)

	err := tx.Run(ctx, func(r invitation.Repos) error {
		return r.Roles.Assign(ctx, role("u1", entity.RoleMentor))
	})
	require.NoError(t, err)

	got, err := memory.Repos(store).Roles.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.RoleMentor, got.Role)
}

func TestTxRunner_ErrorDescartaCambios(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	errBoom := errors.New("fallo del perfil")

	err := tx.Run(ctx, func(r invitation.Repos) error {
		if err := r.Roles.Assign(ctx, role("u1", entity.RoleMentor)); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	got, err := memory.Repos(store).Roles.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTxRunner_ContextoCancelado_DescartaCambios(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)

	err := tx.Run(ctx, func(r invitation.Repos) error {
		cancel()
		return r.Roles.Assign(context.Background(), role("u1", entity.RoleMentor))
	})
	assert.ErrorIs(t, err, context.Canceled)

	got, err := memory.Repos(store).Roles.FindByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// Las filas escritas dentro de la transacción no se ven fuera antes del commit.
func TestTxRunner_SinLecturasSucias(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	outside := memory.Repos(store)

	err := tx.Run(ctx, func(r invitation.Repos) error {
		if err := r.Roles.Assign(ctx, role("u1", entity.RoleSchool)); err != nil {
			return err
		}
		seen, err := outside.Roles.FindByUserID(ctx, "u1")
		require.NoError(t, err)
		assert.Nil(t, seen)
		return nil
	})
	require.NoError(t, err)

	seen, err := outside.Roles.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, seen)
}

// Una transacción fallida no deshace lo escrito fuera de ella mientras corría.
func TestTxRunner_Error_ConservaEscriturasExternas(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	users := memory.NewIdentityRepository(store)
	outside := memory.Repos(store)

	err := tx.Run(ctx, func(r invitation.Repos) error {
		require.NoError(t, users.Create(ctx, identity("u2")))
		require.NoError(t, outside.Roles.Assign(ctx, role("u2", entity.RoleCorporate)))
		return errors.New("fallo")
	})
	require.Error(t, err)

	got, err := users.GetByID(ctx, "u2")
	require.NoError(t, err)
	assert.NotNil(t, got, "la identidad creada fuera de la transacción sigue existiendo")

	r, err := outside.Roles.FindByUserID(ctx, "u2")
	require.NoError(t, err)
	assert.NotNil(t, r)
}

// El commit solo aplica las filas que tocó la transacción; un borrado externo concurrente de otra
// fila se conserva.
func TestTxRunner_Commit_ConservaBorradoExterno(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	users := memory.NewIdentityRepository(store)
	outside := memory.Repos(store)

	require.NoError(t, users.Create(ctx, identity("u1")))
	require.NoError(t, outside.Roles.Assign(ctx, role("u1", entity.RoleMentor)))

	err := tx.Run(ctx, func(r invitation.Repos) error {
		// borrado en cascada de u1 mientras la transacción trabaja sobre u2
		require.NoError(t, users.Delete(ctx, "u1"))
		return r.Roles.Assign(ctx, role("u2", entity.RoleSchool))
	})
	require.NoError(t, err)

	gone, err := outside.Roles.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, gone)

	added, err := outside.Roles.FindByUserID(ctx, "u2")
	require.NoError(t, err)
	assert.NotNil(t, added)
}

func TestTxRunner_Commit_AplicaActualizacion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	outside := memory.Repos(store)

	now := time.Now()
	pending := &entity.PendingSchool{ID: "p1", CorporateID: "c1", SchoolName: "Birch Primary", CreatedAt: now}
	require.NoError(t, outside.PendingSchools.Create(ctx, pending))

	err := tx.Run(ctx, func(r invitation.Repos) error {
		return r.PendingSchools.MarkInvited(ctx, "p1", "office@birch.example", now)
	})
	require.NoError(t, err)

	got, err := outside.PendingSchools.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.InvitedEmail)
	assert.Equal(t, "office@birch.example", *got.InvitedEmail)
}
