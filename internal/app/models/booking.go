package models

import (
	"medibook-service/internal/pkg/constvars"
	"time"
)

// PatientDetails is a contact snapshot taken when the booking is created.
type PatientDetails struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone" bson:"phone"`
}

type Booking struct {
	ID               string         `json:"id" bson:"_id,omitempty"`
	BookingReference string         `json:"bookingReference" bson:"bookingReference"`
	PatientID        string         `json:"patient" bson:"patientId"`
	DoctorID         string         `json:"doctor" bson:"doctorId"`
	ClinicID         string         `json:"clinic,omitempty" bson:"clinicId,omitempty"`
	AppointmentDate  time.Time      `json:"appointmentDate" bson:"appointmentDate"`
	AppointmentTime  string         `json:"appointmentTime" bson:"appointmentTime"`
	Symptoms         string         `json:"symptoms,omitempty" bson:"symptoms,omitempty"`
	ReasonForVisit   string         `json:"reasonForVisit,omitempty" bson:"reasonForVisit,omitempty"`
	Diagnosis        string         `json:"diagnosis,omitempty" bson:"diagnosis,omitempty"`
	Prescription     string         `json:"prescription,omitempty" bson:"prescription,omitempty"`
	Notes            string         `json:"notes,omitempty" bson:"notes,omitempty"`
	ConsultationFee  float64        `json:"consultationFee" bson:"consultationFee"`
	PaymentMethod    string         `json:"paymentMethod" bson:"paymentMethod"`
	Status           string         `json:"status" bson:"status"`
	PatientDetails   PatientDetails `json:"patientDetails" bson:"patientDetails"`
	ActiveSlot       bool           `json:"-" bson:"activeSlot"`
	CompletedAt      *time.Time     `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CancelledAt      *time.Time     `json:"cancelledAt,omitempty" bson:"cancelledAt,omitempty"`
	CancelledBy      string         `json:"cancelledBy,omitempty" bson:"cancelledBy,omitempty"`
	TimeModel        `bson:",inline"`
}

var bookingStatuses = map[string]bool{
	constvars.BookingStatusPending:   true,
	constvars.BookingStatusConfirmed: true,
	constvars.BookingStatusCompleted: true,
	constvars.BookingStatusCancelled: true,
	constvars.BookingStatusNoShow:    true,
}

// IsValidBookingStatus reports whether status belongs to the booking status enum.
func IsValidBookingStatus(status string) bool {
	return bookingStatuses[status]
}

// IsActiveBookingStatus reports whether a booking in status occupies its slot.
func IsActiveBookingStatus(status string) bool {
	return status == constvars.BookingStatusPending || status == constvars.BookingStatusConfirmed
}

// ActiveBookingStatuses lists the statuses that hold a slot.
func ActiveBookingStatuses() []string {
	return []string{constvars.BookingStatusPending, constvars.BookingStatusConfirmed}
}

func (b *Booking) IsActive() bool {
	return IsActiveBookingStatus(b.Status)
}

func (b *Booking) IsTerminal() bool {
	return !b.IsActive()
}

// SetStatus keeps ActiveSlot in step with Status; every status write goes through here.
func (b *Booking) SetStatus(status string) {
	b.Status = status
	b.ActiveSlot = IsActiveBookingStatus(status)
}

func (b *Booking) AppointmentDateString() string {
	return b.AppointmentDate.Format(constvars.DateLayoutISO)
}
