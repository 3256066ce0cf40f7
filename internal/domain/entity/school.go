package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SchoolProfile colegio registrado (completó su propio registro vía invitación de un corporate).
type SchoolProfile struct {
	ID            string
	UserID        string
	CorporateID   *string // nil = sin corporate patrocinador
	SchoolName    string
	SchoolType    string
	Location      string
	StudentCount  int
	FSMPercentage decimal.Decimal // porcentaje de alumnos con free school meals (0-100)
	ContactName   string
	ContactRole   string
	Phone         string // E.164
	CreatedAt     time.Time
}

// PendingSchool colegio referenciado por nombre pero aún no registrado. Siempre de un corporate.
type PendingSchool struct {
	ID                   string
	CorporateID          string
	CreatedByMentorID    *string
	SchoolName           string
	InvitedEmail         *string
	InvitedAt            *time.Time
	SupersededBySchoolID *string // se completa cuando el colegio se registra
	CreatedAt            time.Time
}

// Superseded informa si el colegio pendiente ya fue reemplazado por un registro real.
func (p *PendingSchool) Superseded() bool {
	return p.SupersededBySchoolID != nil
}

// SchoolDirectoryEntry nombre conocido de colegio, independiente del corporate (solo sugerencias).
type SchoolDirectoryEntry struct {
	ID         string
	SchoolName string
	CreatedAt  time.Time
}
