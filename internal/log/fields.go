package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldEntryID    = "entry_id"
	FieldEntryType  = "entry_type"
	FieldAmount     = "amount_cents"
	FieldCategory   = "category"
	FieldAction     = "action"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentAuth    = "auth"
	ComponentStorage = "storage"
	ComponentEvents  = "events"
	ComponentExport  = "export"
	ComponentWorker  = "worker"
)

// Operations defines standard operation names
const (
	OpCreate  = "create"
	OpList    = "list"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpSummary = "summary"
	OpVerify  = "verify"
	OpExport  = "export"
)
