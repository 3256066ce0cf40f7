package dto

// CorporateDashboard datos del panel corporate.
type CorporateDashboard struct {
	Corporate      CorporateResponse       `json:"corporate"`
	Links          InvitationLinks         `json:"invitation_links"`
	Mentors        []MentorResponse        `json:"mentors"`
	Schools        []SchoolResponse        `json:"schools"`
	PendingSchools []PendingSchoolResponse `json:"pending_schools"`
}

// SchoolDashboard datos del panel de colegio.
type SchoolDashboard struct {
	School        SchoolResponse   `json:"school"`
	CorporateName string           `json:"corporate_name,omitempty"`
	Mentors       []MentorResponse `json:"mentors"`
}

// MentorDashboard datos del panel de mentor.
type MentorDashboard struct {
	Mentor        MentorResponse `json:"mentor"`
	CorporateName string         `json:"corporate_name,omitempty"`
	SchoolName    string         `json:"school_name,omitempty"`
	SchoolStatus  string         `json:"school_status"` // registered | pending | unassigned
}
