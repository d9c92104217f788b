package constants

// Context keys
const (
	ContextTokenData = "token_data"
	ContextRawToken  = "token_raw"
)

// Token scopes
const (
	ScopeTokenAccess = "access"
)

// Redis keys
const (
	RedisKeyTokenBlacklist = "token:blacklist:"
	RedisKeyEventList      = "events:list:"
)

// Database connection pool settings
const (
	DatabaseSSLMode         = "disable"
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 10
	DatabaseConnMaxLifetime = 30 // minutes
)

// Pagination defaults
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 20
	MaxPageSize       = 100
)

// Asynq task types
const (
	TaskRegistrationConfirmed = "registration:confirmed"
	TaskRegistrationCancelled = "registration:cancelled"
	TaskEventCancelled        = "event:cancelled"
	TaskEventReminder         = "event:reminder"
)

// Event image upload limits
const (
	MaxImageSizeBytes = 5 << 20 // 5 MB
)
