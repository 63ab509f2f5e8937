package constvars

const (
	URLParamBookingID = "bookingId"
	URLParamUserID    = "userId"
	URLParamDoctorID  = "doctorId"
)

const (
	QueryParamPage     = "page"
	QueryParamLimit    = "limit"
	QueryParamStatus   = "status"
	QueryParamDate     = "date"
	QueryParamTime     = "time"
	QueryParamDoctorID = "doctorId"
	QueryParamFormat   = "format"
)
