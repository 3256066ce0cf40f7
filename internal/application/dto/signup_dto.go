package dto

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
	"github.com/shopspring/decimal"
)

const minPasswordLength = 8

// CorporateSignupRequest formulario de registro de un corporate (no requiere invitación).
type CorporateSignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry"`
	CompanySize string `json:"company_size"`
}

// Validate valida el formulario.
func (r CorporateSignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLength, 100)),
		validation.Field(&r.CompanyName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Industry, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.CompanySize, validation.Required, validation.Length(1, 50)),
	)
}

// MentorSignupRequest formulario de registro de mentor vía enlace de invitación.
// IsNewSchool indica que el mentor escribió un nombre que no estaba en las sugerencias.
type MentorSignupRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FullName       string `json:"full_name"`
	CompanyName    string `json:"company_name"`
	JobTitle       string `json:"job_title"`
	BackgroundInfo string `json:"background_info"`
	SchoolName     string `json:"school_name"`
	IsNewSchool    bool   `json:"is_new_school"`
}

// Validate valida el formulario.
func (r MentorSignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLength, 100)),
		validation.Field(&r.FullName, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.CompanyName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.JobTitle, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.BackgroundInfo, validation.Length(0, 2000)),
		validation.Field(&r.SchoolName, validation.Length(0, 200)),
	)
}

// SchoolSignupRequest formulario de registro de colegio vía enlace de invitación.
type SchoolSignupRequest struct {
	Email         string          `json:"email"`
	Password      string          `json:"password"`
	SchoolName    string          `json:"school_name"`
	SchoolType    string          `json:"school_type"`
	Location      string          `json:"location"`
	StudentCount  int             `json:"student_count"`
	FSMPercentage decimal.Decimal `json:"fsm_percentage"`
	ContactName   string          `json:"contact_name"`
	ContactRole   string          `json:"contact_role"`
	Phone         string          `json:"phone"`
}

// Validate valida el formulario. region es la región por defecto para interpretar el teléfono (ej. "GB").
func (r SchoolSignupRequest) Validate(region string) error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLength, 100)),
		validation.Field(&r.SchoolName, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.SchoolType, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Location, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.StudentCount, validation.Required, validation.Min(1), validation.Max(100000)),
		validation.Field(&r.FSMPercentage, validation.By(percentage)),
		validation.Field(&r.ContactName, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.ContactRole, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Phone, validation.Required, validation.By(phoneRule(region))),
	)
}

// NormalizePhone devuelve el teléfono en formato E.164. Requiere un número ya validado.
func NormalizePhone(phone, region string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(phone), region)
	if err != nil {
		return "", err
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func phoneRule(region string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		num, err := phonenumbers.Parse(strings.TrimSpace(s), region)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			return errors.New("must be a valid phone number")
		}
		return nil
	}
}

func percentage(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return errors.New("must be a number")
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("must be between 0 and 100")
	}
	return nil
}

// SignupResponse salida de cualquier registro.
type SignupResponse struct {
	UserID    string           `json:"user_id"`
	Role      string           `json:"role"`
	ProfileID string           `json:"profile_id"`
	Redirect  string           `json:"redirect"`
	Links     *InvitationLinks `json:"invitation_links,omitempty"`
}

// ValidationFields aplana los errores de ozzo-validation a campo → mensaje.
// Devuelve nil si err no es un error de validación.
func ValidationFields(err error) map[string]string {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for field, fe := range verrs {
		if fe != nil {
			out[field] = fe.Error()
		}
	}
	return out
}
