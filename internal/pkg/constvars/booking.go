package constvars

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
	BookingStatusNoShow    = "no_show"
)

const (
	BookingDefaultCancelNote    = "Cancelled by user"
	BookingDefaultPaymentMethod = "cash"
	BookingReferencePrefix      = "BK"
	BookingReferenceLength      = 6
)

// Redis keys
const (
	BookingSlotLockKeyFormat = "booking:slot:%s:%s:%s"
	SessionKeyFormat         = "session:%s"
)

// Activity event types published to the activity queue.
const (
	ActivityTypeBookingCreated       = "booking_created"
	ActivityTypeBookingStatusUpdated = "booking_status_updated"
	ActivityTypeBookingCancelled     = "booking_cancelled"
	ActivityTargetModelBooking       = "Booking"
)

const (
	BookingExportObjectNameFormat = "exports/bookings_%s.%s"
	BookingExportSheetName        = "Bookings"
	ExportFormatCSV               = "csv"
	ExportFormatXLSX              = "xlsx"
	ExportTriggerManual           = "manual"
	ExportTriggerScheduled        = "scheduled"
)

// ExportLeaderLockKey keeps scheduled exports to one instance per tick.
const ExportLeaderLockKey = "booking:export:leader"
