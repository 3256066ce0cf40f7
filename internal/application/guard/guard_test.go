package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Mentoria-api/internal/application/guard"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

func rolePtr(r entity.Role) *entity.Role { return &r }

func loggedIn(role *entity.Role) guard.State {
	return guard.State{IsAuthenticated: true, UserID: "user-1", Role: role}
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// Para todo usuario con rol: redirige sii rol ≠ esperado.
func TestRequireRole_RedirigeSiiRolDistinto(t *testing.T) {
	for _, actual := range entity.Roles() {
		for _, expected := range entity.Roles() {
			d := guard.RequireRole(loggedIn(rolePtr(actual)), expected, "/some-page")
			if actual == expected {
				assert.Equal(t, guard.Allow, d.Action, "%s en ruta %s", actual, expected)
				continue
			}
			assert.Equal(t, guard.Redirect, d.Action, "%s en ruta %s", actual, expected)
			assert.Equal(t, actual.Dashboard(), d.Location)
		}
	}
}

// Nunca redirige mientras isLoading es true, sea cual sea el resto del estado.
func TestRequireRole_NuncaRedirigeCargando(t *testing.T) {
	states := []guard.State{
		{IsLoading: true},
		{IsLoading: true, UserID: "u", IsAuthenticated: true},
		{IsLoading: true, UserID: "u", IsAuthenticated: true, Role: rolePtr(entity.RoleSchool)},
	}
	for _, st := range states {
		for _, expected := range entity.Roles() {
			assert.Equal(t, guard.Wait, guard.RequireRole(st, expected, "/x").Action)
		}
	}
}

func TestRequireRole_SinUsuario_Login(t *testing.T) {
	d := guard.RequireRole(guard.State{}, entity.RoleMentor, "/mentor-dashboard")
	assert.Equal(t, guard.Redirect, d.Action)
	assert.Equal(t, "/login?redirect=%2Fmentor-dashboard", d.Location)
}

// Escenario D: rol school en página de corporate → /school-dashboard.
func TestRequireRole_SchoolEnRutaCorporate(t *testing.T) {
	d := guard.RequireRole(loggedIn(rolePtr(entity.RoleSchool)), entity.RoleCorporate, "/corporate-dashboard")
	assert.Equal(t, guard.Redirect, d.Action)
	assert.Equal(t, "/school-dashboard", d.Location)
}

func TestRequireRole_SinRol_PerfilIncompleto(t *testing.T) {
	d := guard.RequireRole(loggedIn(nil), entity.RoleMentor, "/mentor-dashboard")
	assert.Equal(t, guard.Redirect, d.Action)
	assert.Equal(t, guard.ReasonProfileIncomplete, d.Reason)
	assert.Equal(t, "/login?reason=profile_incomplete&redirect=%2Fmentor-dashboard", d.Location)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireAuth / RedirectIfAuthenticated
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAuth(t *testing.T) {
	assert.Equal(t, guard.Wait, guard.RequireAuth(guard.State{IsLoading: true}, "/x").Action)
	assert.Equal(t, guard.Allow, guard.RequireAuth(loggedIn(nil), "/x").Action)

	d := guard.RequireAuth(guard.State{}, "/a b")
	assert.Equal(t, guard.Redirect, d.Action)
	assert.Equal(t, "/login?redirect=%2Fa+b", d.Location)
}

func TestRedirectIfAuthenticated(t *testing.T) {
	mentor := loggedIn(rolePtr(entity.RoleMentor))

	assert.Equal(t, "/mentor-dashboard", guard.RedirectIfAuthenticated(mentor, "", "").Location)
	assert.Equal(t, "/home", guard.RedirectIfAuthenticated(mentor, "", "/home").Location)
	assert.Equal(t, "/mentor-dashboard?tab=x", guard.RedirectIfAuthenticated(mentor, "/mentor-dashboard?tab=x", "/home").Location)

	// open redirect: se ignora
	assert.Equal(t, "/mentor-dashboard", guard.RedirectIfAuthenticated(mentor, "https://evil.example", "").Location)
	assert.Equal(t, "/mentor-dashboard", guard.RedirectIfAuthenticated(mentor, "//evil.example", "").Location)

	assert.Equal(t, guard.Allow, guard.RedirectIfAuthenticated(guard.State{}, "", "").Action)
	assert.Equal(t, guard.Allow, guard.RedirectIfAuthenticated(loggedIn(nil), "", "").Action,
		"sin rol conocido no se rebota")
	assert.Equal(t, guard.Wait, guard.RedirectIfAuthenticated(guard.State{IsLoading: true}, "", "").Action)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas públicas
// ──────────────────────────────────────────────────────────────────────────────

func TestIsPublicRoute(t *testing.T) {
	public := []string{"/", "/login", "/login?redirect=%2Fx", "/mentor-signup?corporate=c1", "/for-students", "/forgot-password"}
	for _, p := range public {
		assert.True(t, guard.IsPublicRoute(p), p)
	}
	private := []string{"/corporate-dashboard", "/login/extra", "/mentor-signupx", "/terms-of-use", ""}
	for _, p := range private {
		assert.False(t, guard.IsPublicRoute(p), p)
	}
	assert.Len(t, guard.PublicRoutes(), 12)
}
