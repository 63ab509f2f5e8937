package constvars

const (
	LoggingRequestIDKey          = "request_id"
	LoggingSessionDataKey        = "session_data"
	LoggingQueryParamsKey        = "query_params"
	LoggingResponseKey           = "response"
	LoggingRequestKey            = "request"
	LoggingResponseLengthKey     = "response_length"
	LoggingBookingIDKey          = "booking_id"
	LoggingBookingReferenceKey   = "booking_reference"
	LoggingBookingStatusKey      = "booking_status"
	LoggingDoctorIDKey           = "doctor_id"
	LoggingPatientIDKey          = "patient_id"
	LoggingActorIDKey            = "actor_id"
	LoggingActorRoleKey          = "actor_role"
	LoggingAppointmentDateKey    = "appointment_date"
	LoggingAppointmentTimeKey    = "appointment_time"
	LoggingSlotAvailableKey      = "slot_available"
	LoggingActivityTypeKey       = "activity_type"
	LoggingQueueNameKey          = "queue_name"
	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
	LoggingBucketNameKey         = "bucket_name"
	LoggingObjectNameKey         = "object_name"
	LoggingTotalKey              = "total"
	LoggingExportFormatKey       = "export_format"
	LoggingCronSpecKey           = "cron_spec"
	LoggingMethodKey             = "method"
	LoggingEndpointKey           = "endpoint"
	LoggingRemoteAddrKey         = "remote_addr"
	LoggingUserAgentKey          = "user_agent"
	LoggingQueryKey              = "query"
	LoggingStatusCodeKey         = "status_code"
	LoggingDurationKey           = "duration"
	LoggingSuccessKey            = "success"
)
