package middleware

// Context keys used to store request metadata.
const (
	ContextKeyRequestID = "request_id"
	ContextKeySubject   = "auth_subject"
	ContextKeyRole      = "auth_role"
)
