// Package guard decide las redirecciones de las rutas protegidas a partir del estado de sesión.
//
// Las tres guardas son funciones puras sobre State: el servidor las evalúa por petición y el
// cliente (session.Manager) cada vez que cambia su estado.
package guard

import (
	"net/url"
	"strings"

	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

const (
	LoginPath = "/login"

	// ReasonProfileIncomplete identidad sin RoleAssignment (registro interrumpido).
	ReasonProfileIncomplete = "profile_incomplete"
)

// State vista mínima del estado de sesión que necesitan las guardas.
type State struct {
	IsLoading       bool
	IsAuthenticated bool
	UserID          string
	Role            *entity.Role
}

func (s State) hasUser() bool { return s.UserID != "" }

// Action resultado de una guarda.
type Action int

const (
	// Allow la ruta se muestra.
	Allow Action = iota
	// Wait la sesión sigue cargando: no se decide nada todavía.
	Wait
	// Redirect navegar a Decision.Location.
	Redirect
)

// Decision resultado de evaluar una guarda.
type Decision struct {
	Action   Action
	Location string
	Reason   string
}

func allow() Decision { return Decision{Action: Allow} }
func wait() Decision  { return Decision{Action: Wait} }

func redirect(location, reason string) Decision {
	return Decision{Action: Redirect, Location: location, Reason: reason}
}

// RequireRole exige que el usuario tenga el rol expected.
//   - cargando                      → Wait
//   - sin usuario                   → /login?redirect=<currentPath>
//   - usuario con otro rol          → dashboard de su rol
//   - usuario sin rol               → /login?redirect=<currentPath>&reason=profile_incomplete
func RequireRole(st State, expected entity.Role, currentPath string) Decision {
	if st.IsLoading {
		return wait()
	}
	if !st.hasUser() {
		return redirect(LoginURL(currentPath), "unauthenticated")
	}
	if st.Role == nil {
		return redirect(loginURLWithReason(currentPath, ReasonProfileIncomplete), ReasonProfileIncomplete)
	}
	if *st.Role != expected {
		return redirect(st.Role.Dashboard(), "wrong_role")
	}
	return allow()
}

// RequireAuth exige una sesión, con cualquier rol (o ninguno).
func RequireAuth(st State, currentPath string) Decision {
	if st.IsLoading {
		return wait()
	}
	if !st.hasUser() {
		return redirect(LoginURL(currentPath), "unauthenticated")
	}
	return allow()
}

// RedirectIfAuthenticated saca de login/registro a quien ya tiene sesión y rol conocido.
// Destino: redirectParam si es una ruta local, si no defaultPath, si no el dashboard del rol.
func RedirectIfAuthenticated(st State, redirectParam, defaultPath string) Decision {
	if st.IsLoading {
		return wait()
	}
	if !st.IsAuthenticated || st.Role == nil {
		return allow()
	}
	return redirect(PostLoginTarget(*st.Role, redirectParam, defaultPath), "authenticated")
}

// PostLoginTarget destino tras un login correcto: ?redirect= (solo rutas locales), defaultPath,
// o el dashboard del rol.
func PostLoginTarget(role entity.Role, redirectParam, defaultPath string) string {
	if isLocalPath(redirectParam) {
		return redirectParam
	}
	if defaultPath != "" {
		return defaultPath
	}
	return role.Dashboard()
}

// LoginURL construye /login?redirect=<path url-encoded>.
func LoginURL(currentPath string) string {
	if currentPath == "" {
		return LoginPath
	}
	return LoginPath + "?redirect=" + url.QueryEscape(currentPath)
}

func loginURLWithReason(currentPath, reason string) string {
	q := url.Values{}
	if currentPath != "" {
		q.Set("redirect", currentPath)
	}
	q.Set("reason", reason)
	return LoginPath + "?" + q.Encode()
}

// isLocalPath evita open redirects: solo rutas absolutas del propio sitio.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.Contains(p, "\\")
}

// publicRoutes rutas exentas de cualquier guarda.
var publicRoutes = []string{
	"/",
	"/login",
	"/corporate-signup",
	"/mentor-signup",
	"/school-signup",
	"/for-corporates",
	"/for-schools",
	"/for-mentors",
	"/for-students",
	"/terms",
	"/privacy",
	"/forgot-password",
}

// PublicRoutes copia de la lista de rutas públicas.
func PublicRoutes() []string {
	out := make([]string, len(publicRoutes))
	copy(out, publicRoutes)
	return out
}

// IsPublicRoute coincidencia exacta, o prefijo hasta un '?'.
func IsPublicRoute(path string) bool {
	for _, p := range publicRoutes {
		if path == p || strings.HasPrefix(path, p+"?") {
			return true
		}
	}
	return false
}
