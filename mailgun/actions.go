package mailgun

import "fmt"

// Forward returns an action forwarding the message to an address or URL
func Forward(destination string) string {
	return fmt.Sprintf(`forward("%s")`, destination)
}

// Store returns an action storing the message, optionally notifying a URL
func Store(notify string) string {
	if notify == "" {
		return "store()"
	}
	return fmt.Sprintf(`store(notify="%s")`, notify)
}

// Stop returns the action that ends evaluation of lower-priority routes
func Stop() string {
	return "stop()"
}

// MatchRecipient returns a filter matching the recipient against pattern.
// The pattern is embedded verbatim, regex escapes included.
func MatchRecipient(pattern string) string {
	return fmt.Sprintf(`match_recipient("%s")`, pattern)
}

// MatchHeader returns a filter matching a header value against pattern
func MatchHeader(header, pattern string) string {
	return fmt.Sprintf(`match_header("%s", "%s")`, header, pattern)
}

// CatchAll returns the filter matching every message
func CatchAll() string {
	return "catch_all()"
}

// Actions builds an ordered action list
type Actions struct {
	items []string
}

// NewActions creates an empty action list
func NewActions() *Actions {
	return &Actions{}
}

// Forward appends a forward action
func (a *Actions) Forward(destination string) *Actions {
	a.items = append(a.items, Forward(destination))
	return a
}

// Store appends a store action
func (a *Actions) Store(notify string) *Actions {
	a.items = append(a.items, Store(notify))
	return a
}

// Stop appends a stop action
func (a *Actions) Stop() *Actions {
	a.items = append(a.items, Stop())
	return a
}

// List returns a copy of the actions in insertion order
func (a *Actions) List() []string {
	out := make([]string, len(a.items))
	copy(out, a.items)
	return out
}
