package dropspot_client

const (
	// Base URL
	DefaultBaseURL = "http://localhost:8000/api"

	// API Endpoints
	DropsEndpoint      = "/drops"
	AuthLoginEndpoint  = "/auth/login"
	AuthSignupEndpoint = "/auth/signup"
	AdminDropsEndpoint = "/admin/drops"

	// Headers
	ContentTypeHeader = "Content-Type"
	ContentTypeJSON   = "application/json"
)
