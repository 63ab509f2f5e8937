package requests

type PatientDetails struct {
	Name  string `json:"name" validate:"omitempty,max=120"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

type CreateBooking struct {
	DoctorID        string          `json:"doctorId" validate:"required"`
	ClinicID        string          `json:"clinicId"`
	AppointmentDate string          `json:"appointmentDate" validate:"required,iso_date"`
	AppointmentTime string          `json:"appointmentTime" validate:"required,max=32"`
	Symptoms        string          `json:"symptoms" validate:"max=2000"`
	ReasonForVisit  string          `json:"reasonForVisit" validate:"max=2000"`
	PaymentMethod   string          `json:"paymentMethod" validate:"max=32"`
	PatientDetails  *PatientDetails `json:"patientDetails"`
}

// UpdateBookingStatus carries optional fields; a nil pointer means "not supplied".
type UpdateBookingStatus struct {
	Status       *string `json:"status"`
	Diagnosis    *string `json:"diagnosis" validate:"omitempty,max=4000"`
	Prescription *string `json:"prescription" validate:"omitempty,max=4000"`
	Notes        *string `json:"notes" validate:"omitempty,max=4000"`
}

type CancelBooking struct {
	Reason string `json:"reason" validate:"max=2000"`
}

type CheckAvailability struct {
	DoctorID        string `validate:"required"`
	AppointmentDate string `validate:"required,iso_date"`
	AppointmentTime string `validate:"required,max=32"`
}
