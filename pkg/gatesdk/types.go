package gatesdk

// SessionCookieName is the cookie the server stores the session token in.
const SessionCookieName = "sb-access-token"

// Modes reported by the auth gate.
const (
	ModeNew       = "new"
	ModeReturning = "returning"
)

// ============================================================================
// Gate Types
// ============================================================================

// AuthGateRequest is the body of POST /auth-gate.
type AuthGateRequest struct {
	Name       string `json:"name"`
	Passphrase string `json:"passphrase"`
}

// AuthGateResponse is returned after a correct team passphrase.
type AuthGateResponse struct {
	// Status is always "ok".
	Status string `json:"status"`

	// Mode is "new" when the name created a profile, "returning" otherwise.
	Mode string `json:"mode"`

	// TempToken authorizes one POST /set-personal-secret within five minutes.
	TempToken string `json:"temp_token"`
}

// SetPersonalSecretRequest is the body of POST /set-personal-secret. At least
// one field must be set; the PIN wins when both are.
type SetPersonalSecretRequest struct {
	PIN      string `json:"pin,omitempty"`
	Password string `json:"password,omitempty"`
}

// LoginExistingRequest is the body of POST /login-existing.
type LoginExistingRequest struct {
	Name   string `json:"name"`
	Secret string `json:"secret"`
}

// MessageResponse is the body of endpoints that set the session cookie.
type MessageResponse struct {
	Message string `json:"message"`
}

// ProfileResponse describes the profile behind a session token.
type ProfileResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	NameSlug    string `json:"name_slug"`
	CohortID    string `json:"cohort_id"`
	Role        string `json:"role"`
	AuthType    string `json:"auth_type"`
	HasSecret   bool   `json:"has_secret"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz. Only /readyz fills Checks.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports each dependency as "ok" or "error: ...".
type HealthChecks struct {
	Database string `json:"database"`
	Tokens   string `json:"tokens"`

	// Replay is empty when no replay guard is configured.
	Replay string `json:"replay,omitempty"`
}
