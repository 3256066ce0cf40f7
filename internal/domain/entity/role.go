package entity

import (
	"fmt"
	"time"
)

// Role rol asignado a una identidad. Conjunto cerrado: corporate | school | mentor.
type Role string

const (
	RoleCorporate Role = "corporate"
	RoleSchool    Role = "school"
	RoleMentor    Role = "mentor"
)

// Roles devuelve todos los roles válidos en orden estable.
func Roles() []Role {
	return []Role{RoleCorporate, RoleSchool, RoleMentor}
}

// ParseRole convierte un string persistido en Role. Falla ante valores desconocidos.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCorporate, RoleSchool, RoleMentor:
		return Role(s), nil
	}
	return "", fmt.Errorf("rol desconocido: %q", s)
}

// Dashboard ruta del panel de cada rol (redirecciones y enlaces en emails).
func (r Role) Dashboard() string {
	switch r {
	case RoleCorporate:
		return "/corporate-dashboard"
	case RoleSchool:
		return "/school-dashboard"
	case RoleMentor:
		return "/mentor-dashboard"
	}
	panic(fmt.Sprintf("entity: rol sin dashboard: %q", string(r)))
}

func (r Role) String() string { return string(r) }

// RoleAssignment fila de user_roles. Como máximo una por usuario; nunca se modifica.
type RoleAssignment struct {
	ID        string
	UserID    string
	Role      Role
	CreatedAt time.Time
}
