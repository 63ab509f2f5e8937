package constvars

const (
	ResponseUnknown = "unknown"

	CreateBookingSuccessMessage       = "booking created successfully"
	GetBookingSuccessMessage          = "get booking successfully"
	GetBookingsSuccessMessage         = "get bookings successfully"
	UpdateBookingStatusSuccessMessage = "booking updated successfully"
	CancelBookingSuccessMessage       = "booking cancelled successfully"
	CheckAvailabilitySuccessMessage   = "slot availability checked successfully"
	ExportBookingsSuccessMessage      = "bookings exported successfully"
)
