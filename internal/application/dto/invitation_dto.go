package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// InvitationResponse resultado de validar un enlace de invitación.
type InvitationResponse struct {
	Status      string `json:"status"` // valid | invalid
	CorporateID string `json:"corporate_id,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

// InvitationLinks enlaces de registro acotados a un corporate.
type InvitationLinks struct {
	CorporateID     string `json:"corporate_id"`
	MentorSignupURL string `json:"mentor_signup_url"`
	SchoolSignupURL string `json:"school_signup_url"`
}

// SchoolChoice colegio elegido por el staff del corporate al (re)asignar un mentor.
// Kind: registered (ID de SchoolProfile), pending (ID de PendingSchool) o new (Name + Email opcional).
type SchoolChoice struct {
	Kind  string `json:"kind"`
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// InviteSchoolRequest invitación explícita de un colegio por nombre/email.
type InviteSchoolRequest struct {
	SchoolName string `json:"school_name"`
	Email      string `json:"email"`
}

// MentorResponse perfil de mentor con su vínculo de colegio.
type MentorResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	CorporateID     *string   `json:"corporate_id"`
	FullName        string    `json:"full_name"`
	Company         string    `json:"company"`
	JobTitle        string    `json:"job_title"`
	BackgroundInfo  string    `json:"background_info"`
	SchoolID        *string   `json:"school_id"`
	PendingSchoolID *string   `json:"pending_school_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// SchoolResponse colegio registrado.
type SchoolResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CorporateID   *string   `json:"corporate_id"`
	SchoolName    string    `json:"school_name"`
	SchoolType    string    `json:"school_type"`
	Location      string    `json:"location"`
	StudentCount  int       `json:"student_count"`
	FSMPercentage string    `json:"fsm_percentage"`
	ContactName   string    `json:"contact_name"`
	ContactRole   string    `json:"contact_role"`
	Phone         string    `json:"phone"`
	CreatedAt     time.Time `json:"created_at"`
}

// PendingSchoolResponse colegio pendiente de registro.
type PendingSchoolResponse struct {
	ID                   string     `json:"id"`
	CorporateID          string     `json:"corporate_id"`
	CreatedByMentorID    *string    `json:"created_by_mentor_id"`
	SchoolName           string     `json:"school_name"`
	InvitedEmail         *string    `json:"invited_email"`
	InvitedAt            *time.Time `json:"invited_at"`
	SupersededBySchoolID *string    `json:"superseded_by_school_id,omitempty"`
}

// CorporateResponse perfil de corporate.
type CorporateResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CompanyName string    `json:"company_name"`
	Industry    string    `json:"industry"`
	CompanySize string    `json:"company_size"`
	CreatedAt   time.Time `json:"created_at"`
}

// SchoolDirectoryItem sugerencia de nombre de colegio.
type SchoolDirectoryItem struct {
	ID         string `json:"id"`
	SchoolName string `json:"school_name"`
}

// Tipos de SchoolChoice.
const (
	SchoolChoiceRegistered = "registered"
	SchoolChoicePending    = "pending"
	SchoolChoiceNew        = "new"
)

// Validate valida la elección de colegio.
func (c SchoolChoice) Validate() error {
	idRules := []validation.Rule{is.UUID}
	nameRules := []validation.Rule{validation.Length(0, 200)}
	if c.Kind == SchoolChoiceNew {
		nameRules = append(nameRules, validation.Required)
	} else {
		idRules = append(idRules, validation.Required)
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Kind, validation.Required, validation.In(SchoolChoiceRegistered, SchoolChoicePending, SchoolChoiceNew)),
		validation.Field(&c.ID, idRules...),
		validation.Field(&c.Name, nameRules...),
		validation.Field(&c.Email, is.Email),
	)
}

// Validate valida la invitación.
func (r InviteSchoolRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SchoolName, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}
