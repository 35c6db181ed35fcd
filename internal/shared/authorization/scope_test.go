package authorization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActor_CanAccessTicket(t *testing.T) {
	tests := []struct {
		name       string
		actor      Actor
		reporterID string
		want       bool
	}{
		{name: "api key sees everything", actor: Actor{Scope: ScopeAPIKey, Name: "triage-bot"}, reporterID: "u1", want: true},
		{name: "admin ui sees everything", actor: Actor{Scope: ScopeAdminUI}, reporterID: "u1", want: true},
		{name: "reporter sees own ticket", actor: Actor{Scope: ScopeReporter, ID: "u1"}, reporterID: "u1", want: true},
		{name: "reporter blocked from other ticket", actor: Actor{Scope: ScopeReporter, ID: "u2"}, reporterID: "u1", want: false},
		{name: "reporter without identity blocked", actor: Actor{Scope: ScopeReporter}, reporterID: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.actor.CanAccessTicket(tt.reporterID))
		})
	}
}

func TestActor_DisplayName(t *testing.T) {
	assert.Equal(t, "triage-bot", Actor{Scope: ScopeAPIKey, Name: "triage-bot", ID: "k1"}.DisplayName())
	assert.Equal(t, "u1", Actor{Scope: ScopeReporter, ID: "u1"}.DisplayName())
	assert.Equal(t, "admin_ui", Actor{Scope: ScopeAdminUI}.DisplayName())
}
