package entity

import "time"

// CorporateProfile organización patrocinadora. Su ID es el ancla (tenant) de los enlaces de invitación.
type CorporateProfile struct {
	ID          string
	UserID      string
	CompanyName string
	Industry    string
	CompanySize string
	CreatedAt   time.Time
}
