package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_SESSION_DATA_KEY         ContextKey = "session_data"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_API_KEY_AUTH_KEY         ContextKey = "api_key_auth"
)

const (
	REQUEST_ID_PREFIX = "MDBK_SVC_"
)

// Roles carried in the session data issued by the identity service.
const (
	RolePatient   = "patient"
	RoleDoctor    = "doctor"
	RoleAdmin     = "admin"
	RoleSuperuser = "superuser"
)

const (
	APIKeySuperuserUserID = "api-key-superuser"
	ScheduledExportUserID = "scheduled-export"
)

const (
	DefaultPaginationPage  = 1
	DefaultPaginationLimit = 10
	MaxPaginationLimit     = 100
)

const (
	DateLayoutISO = "2006-01-02"
)

const (
	MongoCollectionBookings = "bookings"
	MongoCollectionDoctors  = "doctors"
	MongoCollectionUsers    = "users"
)
