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
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldKey        = "key"
	FieldEntityType = "entity_type"
	FieldEntityID   = "entity_id"
	FieldEntityName = "entity_name"
	FieldAmount     = "amount"
	FieldCount      = "count"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentStore    = "store"
	ComponentHistory  = "history"
	ComponentExpense  = "expense"
	ComponentCategory = "category"
	ComponentSource   = "source"
	ComponentSeed     = "seed"
	ComponentPoller   = "poller"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpLoad     = "load"
	OpSave     = "save"
	OpSeed     = "seed"
	OpAppend   = "append"
	OpClear    = "clear"
	OpRefresh  = "refresh"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
