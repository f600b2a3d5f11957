package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteIndex = "/"

	// OAuth install flow
	RouteInstall       = "/install"
	RouteOAuthCallback = "/oauth-callback"

	// CRM pages (require an authorized session)
	RouteEvents       = "/events"
	RouteCustomObject = "/custom-object"

	// Webhooks called by the CRM
	RouteWebhookAssociations = "/webhook-callback"
	RouteWebhookNewEvent     = "/webhook-eventnew"

	RouteError   = "/error"
	RouteMetrics = "/metrics"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
