// Package access decides which actor may perform which booking operation.
package access

import (
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
)

type Role string

const (
	RolePatient   Role = constvars.RolePatient
	RoleDoctor    Role = constvars.RoleDoctor
	RoleAdmin     Role = constvars.RoleAdmin
	RoleSuperuser Role = constvars.RoleSuperuser
)

type Operation string

const (
	OperationCreate            Operation = "create"
	OperationRead              Operation = "read"
	OperationListPatient       Operation = "listPatient"
	OperationListDoctor        Operation = "listDoctor"
	OperationListAll           Operation = "listAll"
	OperationUpdate            Operation = "update"
	OperationCancel            Operation = "cancel"
	OperationCheckAvailability Operation = "checkAvailability"
	OperationExport            Operation = "export"
)

// Actor is the authenticated identity behind a request.
type Actor struct {
	UserID   string
	Role     Role
	DoctorID string
}

func ActorFromSession(session *models.Session) Actor {
	return Actor{
		UserID:   session.UserID,
		Role:     Role(session.Role),
		DoctorID: session.DoctorID,
	}
}

func (a Actor) IsAdministrator() bool {
	return a.Role == RoleAdmin || a.Role == RoleSuperuser
}

// Target names the patient and doctor an operation concerns. Either side may
// be empty, e.g. listing a doctor's bookings has no patient.
type Target struct {
	PatientID string
	DoctorID  string
}

func BookingTarget(booking *models.Booking) Target {
	return Target{
		PatientID: booking.PatientID,
		DoctorID:  booking.DoctorID,
	}
}

func PatientTarget(patientID string) Target {
	return Target{PatientID: patientID}
}

func DoctorTarget(doctorID string) Target {
	return Target{DoctorID: doctorID}
}

type grant uint8

const (
	grantOwnPatient grant = 1 << iota
	grantOwnDoctor
	grantAny
)

var capabilities = map[Operation]map[Role]grant{
	OperationCreate: {
		RolePatient: grantOwnPatient,
	},
	OperationRead: {
		RolePatient:   grantOwnPatient,
		RoleDoctor:    grantOwnDoctor,
		RoleAdmin:     grantAny,
		RoleSuperuser: grantAny,
	},
	OperationListPatient: {
		RolePatient:   grantOwnPatient,
		RoleAdmin:     grantAny,
		RoleSuperuser: grantAny,
	},
	OperationListDoctor: {
		RoleDoctor:    grantOwnDoctor,
		RoleAdmin:     grantAny,
		RoleSuperuser: grantAny,
	},
	OperationListAll: {
		RoleAdmin:     grantAny,
		RoleSuperuser: grantAny,
	},
	OperationUpdate: {
		RoleDoctor:    grantOwnDoctor,
		RoleAdmin:     grantAny,
		RoleSuperuser: grantAny,
	},
	OperationCancel: {
		RolePatient:   grantOwnPatient,
		RoleDoctor:    grantOwnDoctor,
		RoleAdmin:     grantAny,
		RoleSuperuser: grantAny,
	},
	OperationCheckAvailability: {
		RolePatient:   grantAny,
		RoleDoctor:    grantAny,
		RoleAdmin:     grantAny,
		RoleSuperuser: grantAny,
	},
	OperationExport: {
		RoleAdmin:     grantAny,
		RoleSuperuser: grantAny,
	},
}

// CanAccess reports whether actor may perform operation on target. Unknown
// roles and operations are denied.
func CanAccess(actor Actor, target Target, operation Operation) bool {
	roles, ok := capabilities[operation]
	if !ok {
		return false
	}

	granted := roles[actor.Role]
	if granted&grantAny != 0 {
		return true
	}
	if granted&grantOwnPatient != 0 && actor.UserID != "" && actor.UserID == target.PatientID {
		return true
	}
	if granted&grantOwnDoctor != 0 && actor.DoctorID != "" && actor.DoctorID == target.DoctorID {
		return true
	}
	return false
}
