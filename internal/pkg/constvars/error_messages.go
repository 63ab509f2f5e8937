package constvars

// Validation messages, mapped by validator tag
var CustomValidationErrorMessages = map[string]string{
	"required":       "is required",
	"email":          "must be a valid email",
	"min":            "must be at least %s characters long",
	"max":            "maximum at %s characters long",
	"oneof":          "must be one of %s",
	"iso_date":       "must be a valid date in YYYY-MM-DD format",
	"booking_status": "must be one of pending, confirmed, completed, cancelled, no_show",
}

var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
}

// Error codes returned in the "error" field of a failed response
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeValidation        = "VALIDATION_FAILED"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeTooManyRequests   = "TOO_MANY_REQUESTS"
	ErrCodeInternal          = "INTERNAL"
)

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientAccessDenied                  = "access denied"
	ErrClientNotLoggedIn                   = "your session ended, please login again"
	ErrClientInvalidAPIKey                 = "invalid API key"
	ErrClientDoctorNotFound                = "doctor not found"
	ErrClientBookingNotFound               = "booking not found"
	ErrClientPatientNotFound               = "patient not found"
	ErrClientSlotAlreadyBooked             = "this time slot is already booked for the selected doctor"
	ErrClientSlotBeingBooked               = "this time slot is currently being booked, please choose another"
	ErrClientInvalidBookingStatus          = "invalid booking status"
	ErrClientUnsupportedExportFormat       = "export format must be csv or xlsx"
	ErrClientInvalidStatusTransition       = "this status change is not allowed for the booking"
	ErrClientTooManyBookingRequests        = "too many booking requests, please slow down"
)

// Error messages for developers
const (
	ErrDevInvalidInput                = "invalid input"
	ErrDevValidationFailed            = "validation failed"
	ErrDevCannotParseJSON             = "cannot parse JSON"
	ErrDevCannotMarshalJSON           = "cannot marshal JSON"
	ErrDevCannotParseDate             = "cannot parse date"
	ErrDevURLParamValidationFailed    = "url param %s validation failed"
	ErrDevMissingRequestID            = "request id missing in context"
	ErrDevMissingSessionData          = "session data missing in context"
	ErrDevServerProcess               = "server failed to process request"
	ErrDevServerDeadlineExceeded      = "deadline exceeded"
	ErrDevAuthTokenMissing            = "token missing"
	ErrDevAuthTokenInvalidOrExpired   = "token invalid or expired"
	ErrDevAuthSessionNotFound         = "session not found"
	ErrDevInvalidAPIKey               = "invalid API key"
	ErrDevAccessDenied                = "access denied by booking access guard for operation %s"
	ErrDevDoctorNotFound              = "doctor %s not found"
	ErrDevBookingNotFound             = "booking %s not found"
	ErrDevPatientNotFound             = "patient %s not found"
	ErrDevSlotAlreadyBooked           = "slot doctor=%s date=%s time=%s already has an active booking"
	ErrDevSlotLockHeld                = "slot lock %s held by another request"
	ErrDevInvalidBookingStatus        = "status %q is outside the booking status enum"
	ErrDevInvalidStatusTransition     = "transition %s -> %s not allowed for role %s"
	ErrDevTooManyBookingRequests      = "create booking throttle exceeded for actor %s"
	ErrDevDBFailedToInsertDocument    = "failed to insert document into database"
	ErrDevDBFailedToUpdateDocument    = "failed to update document into database"
	ErrDevDBFailedToFindDocument      = "failed when do find document on database"
	ErrDevDBFailedToCountDocuments    = "failed to count documents on database"
	ErrDevDBFailedToIterateDocuments  = "failed to iterate documents on database"
	ErrDevDBStringNotObjectID         = "given ID is not valid object ID"
	ErrDevDBFailedToCreateIndex       = "failed to create index on database"
	ErrDevRedisGetData                = "failed to get data from redis"
	ErrDevRedisSetData                = "failed to set data into redis"
	ErrDevRedisDeleteData             = "failed to delete data from redis"
	ErrDevRedisUnlock                 = "failed to release redis lock"
	ErrDevRabbitMQPublishMessage      = "failed to publish message to queue %s"
	ErrDevMinioFailedToCreateObject   = "failed to create object in bucket %s"
	ErrDevMinioFailedToPresignObject  = "failed to presign object in bucket %s"
	ErrDevCSVWriteFailed              = "failed to write csv"
	ErrDevXLSXWriteFailed             = "failed to write xlsx"
	ErrDevUnsupportedExportFormat     = "export format %q is not supported"
)
