package models

import (
	"medibook-service/internal/pkg/constvars"
	"time"
)

// Session is written to Redis by the identity service when a user logs in.
type Session struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	DoctorID  string    `json:"doctor_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsPatient() bool {
	return s.Role == constvars.RolePatient
}

func (s *Session) IsDoctor() bool {
	return s.Role == constvars.RoleDoctor
}

func (s *Session) IsAdministrator() bool {
	return s.Role == constvars.RoleAdmin || s.Role == constvars.RoleSuperuser
}
