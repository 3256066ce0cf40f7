package invitation

import (
	"github.com/google/uuid"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

func newID() string { return uuid.New().String() }

// ToMentorResponse mapea el perfil a DTO (school_id / pending_school_id desde el vínculo).
func ToMentorResponse(m *entity.MentorProfile) dto.MentorResponse {
	return dto.MentorResponse{
		ID:              m.ID,
		UserID:          m.UserID,
		CorporateID:     m.CorporateID,
		FullName:        m.FullName,
		Company:         m.Company,
		JobTitle:        m.JobTitle,
		BackgroundInfo:  m.BackgroundInfo,
		SchoolID:        m.School.SchoolID(),
		PendingSchoolID: m.School.PendingSchoolID(),
		CreatedAt:       m.CreatedAt,
	}
}

// ToSchoolResponse mapea el colegio registrado a DTO.
func ToSchoolResponse(s *entity.SchoolProfile) dto.SchoolResponse {
	return dto.SchoolResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		CorporateID:   s.CorporateID,
		SchoolName:    s.SchoolName,
		SchoolType:    s.SchoolType,
		Location:      s.Location,
		StudentCount:  s.StudentCount,
		FSMPercentage: s.FSMPercentage.StringFixed(2),
		ContactName:   s.ContactName,
		ContactRole:   s.ContactRole,
		Phone:         s.Phone,
		CreatedAt:     s.CreatedAt,
	}
}

// ToPendingSchoolResponse mapea el pendiente a DTO.
func ToPendingSchoolResponse(p *entity.PendingSchool) dto.PendingSchoolResponse {
	return dto.PendingSchoolResponse{
		ID:                   p.ID,
		CorporateID:          p.CorporateID,
		CreatedByMentorID:    p.CreatedByMentorID,
		SchoolName:           p.SchoolName,
		InvitedEmail:         p.InvitedEmail,
		InvitedAt:            p.InvitedAt,
		SupersededBySchoolID: p.SupersededBySchoolID,
	}
}

// ToCorporateResponse mapea el corporate a DTO.
func ToCorporateResponse(c *entity.CorporateProfile) dto.CorporateResponse {
	return dto.CorporateResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		CompanyName: c.CompanyName,
		Industry:    c.Industry,
		CompanySize: c.CompanySize,
		CreatedAt:   c.CreatedAt,
	}
}
