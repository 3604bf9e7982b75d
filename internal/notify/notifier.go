// Package notify carries best-effort live updates to connected clients.
// Emissions are advisory: they never block, fail, or affect persisted state.
package notify

// Event names broadcast by the match engine.
const (
	EventSubstitution  = "substitution"
	EventFairnessAlert = "fairness_alert"
)

// Notifier accepts fire-and-forget event emissions. Implementations must
// not return errors or block the caller.
type Notifier interface {
	Emit(event string, payload any)
}

// Nop is used when no broadcast collaborator is configured; core behavior
// is identical with or without it.
type Nop struct{}

func (Nop) Emit(string, any) {}

var _ Notifier = Nop{}
