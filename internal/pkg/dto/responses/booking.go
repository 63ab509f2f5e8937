package responses

import (
	"medibook-service/internal/app/models"
)

type DoctorSummary struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Specialization  string  `json:"specialization,omitempty"`
	ConsultationFee float64 `json:"consultationFee"`
}

type PatientSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Booking is a booking enriched with doctor and patient summaries.
type Booking struct {
	models.Booking
	DoctorSummary  *DoctorSummary  `json:"doctorInfo,omitempty"`
	PatientSummary *PatientSummary `json:"patientInfo,omitempty"`
}

type BookingList struct {
	Bookings   []models.Booking
	Pagination Pagination
}

type SlotAvailability struct {
	DoctorID        string `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	Available       bool   `json:"available"`
}

type BookingExport struct {
	ObjectName string `json:"objectName"`
	URL        string `json:"url"`
	Format     string `json:"format"`
	Total      int    `json:"total"`
}
