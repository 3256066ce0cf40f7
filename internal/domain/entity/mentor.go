package entity

import (
	"fmt"
	"time"
)

// SchoolLinkKind variante del vínculo mentor → colegio.
type SchoolLinkKind int

const (
	SchoolLinkUnassigned SchoolLinkKind = iota
	SchoolLinkRegistered
	SchoolLinkPending
)

// SchoolLink vínculo del mentor con un colegio: sin asignar, registrado (school_id) o pendiente
// (pending_school_id). Colapsa las dos FKs en un solo valor, nunca ambas a la vez.
type SchoolLink struct {
	kind SchoolLinkKind
	id   string
}

// Unassigned vínculo vacío.
func Unassigned() SchoolLink { return SchoolLink{} }

// RegisteredSchool vínculo a un SchoolProfile.
func RegisteredSchool(schoolID string) SchoolLink {
	return SchoolLink{kind: SchoolLinkRegistered, id: schoolID}
}

// PendingSchoolLink vínculo a un PendingSchool.
func PendingSchoolLink(pendingSchoolID string) SchoolLink {
	return SchoolLink{kind: SchoolLinkPending, id: pendingSchoolID}
}

// SchoolLinkFromColumns reconstruye el vínculo desde las columnas persistidas.
// Devuelve error si ambas columnas vienen informadas.
func SchoolLinkFromColumns(schoolID, pendingSchoolID *string) (SchoolLink, error) {
	switch {
	case schoolID != nil && pendingSchoolID != nil:
		return SchoolLink{}, fmt.Errorf("mentor con school_id y pending_school_id a la vez")
	case schoolID != nil:
		return RegisteredSchool(*schoolID), nil
	case pendingSchoolID != nil:
		return PendingSchoolLink(*pendingSchoolID), nil
	}
	return Unassigned(), nil
}

func (l SchoolLink) Kind() SchoolLinkKind { return l.kind }

// SchoolID devuelve el school_id (nil salvo vínculo registrado).
func (l SchoolLink) SchoolID() *string {
	if l.kind != SchoolLinkRegistered {
		return nil
	}
	id := l.id
	return &id
}

// PendingSchoolID devuelve el pending_school_id (nil salvo vínculo pendiente).
func (l SchoolLink) PendingSchoolID() *string {
	if l.kind != SchoolLinkPending {
		return nil
	}
	id := l.id
	return &id
}

// MentorProfile perfil del mentor.
type MentorProfile struct {
	ID             string
	UserID         string
	CorporateID    *string
	FullName       string
	Company        string
	JobTitle       string
	BackgroundInfo string
	School         SchoolLink
	CreatedAt      time.Time
}
