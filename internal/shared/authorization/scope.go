// Package authorization describes who is calling the ticket engine.
package authorization

// Scope is the credential class assigned to a request by the auth gate.
type Scope string

const (
	ScopeAPIKey   Scope = "api_key"
	ScopeReporter Scope = "reporter"
	ScopeAdminUI  Scope = "admin_ui"
)

func (s Scope) String() string {
	return string(s)
}

func (s Scope) IsValid() bool {
	switch s {
	case ScopeAPIKey, ScopeReporter, ScopeAdminUI:
		return true
	}
	return false
}

// IsStaff reports whether the scope may drive the ticket workflow.
func (s Scope) IsStaff() bool {
	return s == ScopeAPIKey || s == ScopeAdminUI
}

// Actor is the acting identity attached to a request.
// For reporters ID is the reporter id; for api keys Name is the configured agent name.
// ProjectID is only set for reporters whose token is bound to a project.
type Actor struct {
	Scope     Scope
	ID        string
	Name      string
	ProjectID string
}

// IsReporter reports whether the actor is an end-user reporter.
func (a Actor) IsReporter() bool {
	return a.Scope == ScopeReporter
}

// DisplayName returns the name recorded as activity author.
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	if a.ID != "" {
		return a.ID
	}
	return string(a.Scope)
}

// Owns reports whether a reporter actor owns a ticket filed by reporterID.
// Staff scopes own nothing and must be checked separately.
func (a Actor) Owns(reporterID string) bool {
	return a.IsReporter() && a.ID != "" && a.ID == reporterID
}

// CanAccessTicket reports whether the actor may see a ticket filed by reporterID.
func (a Actor) CanAccessTicket(reporterID string) bool {
	if a.Scope.IsStaff() {
		return true
	}
	return a.Owns(reporterID)
}
