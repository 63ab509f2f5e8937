package config

type InternalConfig struct {
	App      App         `mapstructure:"app"`
	JWT      AppJWT      `mapstructure:"jwt"`
	RabbitMQ AppRabbitMQ `mapstructure:"rabbitmq"`
	Minio    AppMinio    `mapstructure:"minio"`
	Booking  AppBooking  `mapstructure:"booking"`
}

type App struct {
	Env                        string `mapstructure:"env"`
	Port                       string `mapstructure:"port"`
	Version                    string `mapstructure:"version"`
	Timezone                   string `mapstructure:"timezone"`
	EndpointPrefix             string `mapstructure:"endpoint_prefix"`
	MaxRequests                int    `mapstructure:"max_requests"`
	ShutdownTimeoutInSeconds   int    `mapstructure:"shutdown_timeout_in_seconds"`
	RequestTimeoutInSeconds    int    `mapstructure:"request_timeout_in_seconds"`
	RequestBodyLimitInMegabyte int    `mapstructure:"request_body_limit_in_megabyte"`
	SuperuserAPIKey            string `mapstructure:"superuser_api_key"`
	SuperuserAPIKeyRateLimit   int    `mapstructure:"superuser_api_key_rate_limit"`
}

type AppJWT struct {
	Secret string `mapstructure:"secret"`
}

type AppRabbitMQ struct {
	ActivityQueue string `mapstructure:"activity_queue"`
}

type AppMinio struct {
	BucketName                    string `mapstructure:"bucket_name"`
	PreSignedUrlExpiryTimeInHours int    `mapstructure:"pre_signed_url_expiry_time_in_hours"`
}

// AppBooking holds the booking engine's tunables.
type AppBooking struct {
	// SlotLockExpiryInSeconds bounds how long the advisory slot lock survives a crashed request
	SlotLockExpiryInSeconds int `mapstructure:"slot_lock_expiry_in_seconds"`
	// CreateRatePerMinute is the sustained number of create requests allowed per actor
	CreateRatePerMinute int `mapstructure:"create_rate_per_minute"`
	CreateRateBurst     int `mapstructure:"create_rate_burst"`
	// ActivityPublishTimeoutSeconds bounds each fire-and-forget activity publish
	ActivityPublishTimeoutSeconds int `mapstructure:"activity_publish_timeout_seconds"`
	// ExportCronSpec schedules the background export; empty disables it
	ExportCronSpec string `mapstructure:"export_cron_spec"`
	ExportFormat   string `mapstructure:"export_format"`
}
