package contracts

import (
	"context"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/dto/responses"
	"time"
)

type BookingUsecase interface {
	CreateBooking(ctx context.Context, sessionData string, request *requests.CreateBooking) (*responses.Booking, error)
	FindByID(ctx context.Context, sessionData string, bookingID string) (*responses.Booking, error)
	FindAll(ctx context.Context, sessionData string, filter requests.BookingFilter, pagination requests.Pagination) (*responses.BookingList, error)
	FindByPatientID(ctx context.Context, sessionData string, patientID string, pagination requests.Pagination) (*responses.BookingList, error)
	FindByDoctorID(ctx context.Context, sessionData string, doctorID string, filter requests.BookingFilter, pagination requests.Pagination) (*responses.BookingList, error)
	UpdateStatus(ctx context.Context, sessionData string, bookingID string, request *requests.UpdateBookingStatus) (*responses.Booking, error)
	CancelBooking(ctx context.Context, sessionData string, bookingID string, request *requests.CancelBooking) (*responses.Booking, error)
	CheckAvailability(ctx context.Context, sessionData string, request *requests.CheckAvailability) (*responses.SlotAvailability, error)
	ExportBookings(ctx context.Context, sessionData string, filter requests.BookingFilter, format string) (*responses.BookingExport, error)
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, booking *models.Booking) (bookingID string, err error)
	FindByID(ctx context.Context, bookingID string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, booking *models.Booking) error
	CountActiveBySlot(ctx context.Context, doctorID string, appointmentDate time.Time, appointmentTime string) (int64, error)
	FindAll(ctx context.Context, filter requests.BookingFilter, pagination requests.Pagination) ([]models.Booking, int64, error)
	StreamAll(ctx context.Context, filter requests.BookingFilter, fn func(booking *models.Booking) error) error
	EnsureIndexes(ctx context.Context) error
}

// SlotAvailabilityChecker answers whether a doctor/date/time slot is free of active bookings.
type SlotAvailabilityChecker interface {
	IsAvailable(ctx context.Context, doctorID string, appointmentDate time.Time, appointmentTime string) (bool, error)
}
