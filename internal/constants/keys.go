package constants

const (
	// Context Keys
	ContextKeySite      = "site"
	ContextKeyRequestID = "request_id"

	// Session Keys
	SessionName    = "mdblog_session"
	SessionKeyView = "view"

	// Index views
	ViewList  = "list"
	ViewCards = "cards"
)
