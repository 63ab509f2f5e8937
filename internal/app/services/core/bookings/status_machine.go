package bookings

import (
	"medibook-service/internal/app/models"
	"medibook-service/internal/app/services/core/access"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/exceptions"
	"time"
)

// transitionRoles lists, per target status, the non-administrative roles that
// may move an active booking there. Administrators bypass this table.
var transitionRoles = map[string]map[access.Role]bool{
	constvars.BookingStatusCompleted: {
		access.RoleDoctor: true,
	},
	constvars.BookingStatusCancelled: {
		access.RolePatient: true,
		access.RoleDoctor:  true,
	},
	constvars.BookingStatusNoShow: {
		access.RoleDoctor: true,
	},
}

// CanTransition reports whether actor may move a booking from one status to another.
// Both statuses must already be valid.
func CanTransition(from, to string, actor access.Actor) bool {
	if actor.IsAdministrator() {
		return true
	}
	if !models.IsActiveBookingStatus(from) {
		return false
	}
	if from == to {
		return true
	}
	return transitionRoles[to][actor.Role]
}

// ApplyTransition moves booking to status on behalf of actor and stamps the
// audit fields. It reports false when the booking already had that status.
func ApplyTransition(booking *models.Booking, status string, actor access.Actor, now time.Time) (bool, error) {
	if !models.IsValidBookingStatus(status) {
		return false, exceptions.ErrInvalidBookingStatus(status)
	}

	from := booking.Status
	if !CanTransition(from, status, actor) {
		return false, exceptions.ErrInvalidStatusTransition(from, status, string(actor.Role))
	}
	if from == status {
		return false, nil
	}

	switch from {
	case constvars.BookingStatusCompleted:
		booking.CompletedAt = nil
	case constvars.BookingStatusCancelled:
		booking.CancelledAt = nil
		booking.CancelledBy = ""
	}

	stamp := now.UTC()
	switch status {
	case constvars.BookingStatusCompleted:
		booking.CompletedAt = &stamp
	case constvars.BookingStatusCancelled:
		booking.CancelledAt = &stamp
		booking.CancelledBy = actor.UserID
	}

	booking.SetStatus(status)
	return true, nil
}
