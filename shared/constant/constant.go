package constant

import (
	"time"
)

const (
	ContextSystem = "system"
)

// Context key types to avoid collisions
type contextKey string

const (
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyTenantID contextKey = "tenant_id"
	ContextKeyUserRole contextKey = "user_role"
	ContextKeyTokenID  contextKey = "token_id"
)

const (
	RequestParamPage    = "page"
	RequestParamLimit   = "limit"
	RequestParamSortBy  = "sort_by"
	RequestParamSortDir = "sort_dir"
)

const (
	RequestParamID       = "id"
	RequestParamTenant   = "tenant"
	RequestParamStaff    = "staff"
	RequestParamDate     = "date"
	RequestParamTime     = "time"
	RequestParamDuration = "duration_min"
	RequestParamOffering = "offering"
)

const (
	DefaultValuePage  = 1
	DefaultValueLimit = 10
	MaxValueLimit     = 100
)

const (
	FieldModifiedAt = "modified_at"
	FieldModifiedBy = "modified_by"
	FieldTenantID   = "tenant_id"
)

const (
	PqErrorCodeUniqueViolation      = "23505"
	PqErrorCodeExclusionViolation   = "23P01"
	PqErrorCodeSerializationFailure = "40001"
	PqErrorCodeDeadlockDetected     = "40P01"
	PqErrorCodeQueryCanceled        = "57014"
)

const (
	DateFormat = time.RFC3339
)

// SlotGridMinutes is the spacing of candidate start times in a day.
const SlotGridMinutes = 30

const (
	OtelServiceScopeName    = "service"
	OtelRepositoryScopeName = "repository"
	OtelHandlerScopeName    = "handler"
	OtelEngineScopeName     = "engine"
	OtelStoreScopeName      = "store"

	OtelQueryAttributeKey = "query"
	OtelS3ScopeName       = "s3"
	OtelKafkaScopeName    = "kafka"
)

const (
	RequestHeaderAuthorization      = "Authorization"
	RequestHeaderUserAgent          = "User-Agent"
	RequestHeaderContentType        = "Content-Type"
	RequestHeaderRateLimit          = "X-RateLimit-Limit"
	RequestHeaderRateLimitRemaining = "X-RateLimit-Remaining"
	RequestHeaderRateLimitWindow    = "X-RateLimit-Window"
	RequestHeaderForwardedFor       = "X-Forwarded-For"
	RequestHeaderRealIP             = "X-Real-IP"
	RequestHeaderAPIKey             = "X-API-Key"
)

const (
	ContentTypeJSON = "application/json"
)

const (
	ResponseErrorPrepareShutdown      = "SERVER PREPARING TO SHUT DOWN"
	ResponseErrorUnhealthy            = "SERVER UNHEALTHY"
	ResponseErrorRequestLimitExceeded = "REQUEST LIMIT EXCEEDED"
)

const (
	ServerEnvDevelopment = "development"
	ServerEnvProduction  = "production"
)

const (
	Asterix = "*"
	Empty   = ""
)
