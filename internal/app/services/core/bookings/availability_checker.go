package bookings

import (
	"context"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/pkg/constvars"
	"time"

	"go.uber.org/zap"
)

type slotAvailabilityChecker struct {
	BookingRepository contracts.BookingRepository
	Log               *zap.Logger
}

func NewSlotAvailabilityChecker(bookingRepository contracts.BookingRepository, logger *zap.Logger) contracts.SlotAvailabilityChecker {
	return &slotAvailabilityChecker{
		BookingRepository: bookingRepository,
		Log:               logger,
	}
}

// IsAvailable is a read-only fast path. A concurrent insert can still win the
// slot between this check and the caller's write; the unique index decides then.
func (c *slotAvailabilityChecker) IsAvailable(ctx context.Context, doctorID string, appointmentDate time.Time, appointmentTime string) (bool, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	count, err := c.BookingRepository.CountActiveBySlot(ctx, doctorID, appointmentDate, appointmentTime)
	if err != nil {
		c.Log.Error("slotAvailabilityChecker.IsAvailable error calling BookingRepository.CountActiveBySlot",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return false, err
	}

	available := count == 0
	c.Log.Debug("slotAvailabilityChecker.IsAvailable checked",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDoctorIDKey, doctorID),
		zap.Time(constvars.LoggingAppointmentDateKey, appointmentDate),
		zap.String(constvars.LoggingAppointmentTimeKey, appointmentTime),
		zap.Bool(constvars.LoggingSlotAvailableKey, available),
	)
	return available, nil
}
