package mailgun

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// AccessLevel defines how users can interact with a mailing list
type AccessLevel string

const (
	// AccessReadonly lets only authenticated users post (announcements, newsletters)
	AccessReadonly AccessLevel = "readonly"
	// AccessMembers lets subscribed members talk to each other
	AccessMembers AccessLevel = "members"
	// AccessEveryone lets anyone post to the list
	AccessEveryone AccessLevel = "everyone"
)

// ParseAccessLevel maps wire text onto an AccessLevel. Unknown values fall
// back to readonly.
func ParseAccessLevel(s string) AccessLevel {
	switch strings.ToLower(s) {
	case "members":
		return AccessMembers
	case "everyone":
		return AccessEveryone
	default:
		return AccessReadonly
	}
}

// String returns the wire representation
func (a AccessLevel) String() string {
	if a == "" {
		return string(AccessReadonly)
	}
	return string(a)
}

// UnmarshalJSON decodes the access level leniently
func (a *AccessLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = ParseAccessLevel(s)
	return nil
}

// Timestamp is a time decoded from Mailgun's RFC 1123 created_at fields
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339,
}

// UnmarshalJSON parses the remote date text
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", s)
}

// MarshalJSON writes the time back in RFC 1123 form
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(t.UTC().Format(time.RFC1123))
}

// MailingList represents a Mailgun mailing list
type MailingList struct {
	Address      string      `json:"address"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	AccessLevel  AccessLevel `json:"access_level"`
	CreatedAt    Timestamp   `json:"created_at"`
	MembersCount int         `json:"members_count"`
}

// MailingListMember represents a member of a mailing list
type MailingListMember struct {
	Address    string            `json:"address"`
	Name       string            `json:"name"`
	Vars       map[string]string `json:"vars"`
	Subscribed bool              `json:"subscribed"`
}

// Route represents an inbound routing rule
type Route struct {
	ID         string    `json:"id"`
	Priority   int       `json:"priority"`
	Expression string    `json:"expression"`
	Actions    []string  `json:"actions"`
	CreatedAt  Timestamp `json:"created_at"`

	// Description is kept as the literal text the remote returned. For an
	// empty description Mailgun answers with a JSON false, which surfaces
	// here as "false".
	Description string `json:"description"`
}

// UnmarshalJSON decodes a route, keeping non-string descriptions verbatim
func (r *Route) UnmarshalJSON(data []byte) error {
	type plain Route
	aux := struct {
		*plain
		Description json.RawMessage `json:"description"`
	}{plain: (*plain)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Description = ""
	if len(aux.Description) > 0 && string(aux.Description) != "null" {
		var s string
		if err := json.Unmarshal(aux.Description, &s); err == nil {
			r.Description = s
		} else {
			r.Description = string(aux.Description)
		}
	}
	return nil
}

// HasAction reports whether the route carries the given action verbatim
func (r *Route) HasAction(action string) bool {
	for _, a := range r.Actions {
		if strings.TrimSpace(a) == action {
			return true
		}
	}
	return false
}

// CreateMailingListResponse is returned by CreateMailingList
type CreateMailingListResponse struct {
	MailingList MailingList `json:"list"`
	Status      string      `json:"message"`
}

// UpdateMailingListResponse is returned by the mailing list update calls
type UpdateMailingListResponse struct {
	MailingList MailingList `json:"list"`
	Status      string      `json:"message"`
}

// GetMailingListResponse is returned by GetMailingList
type GetMailingListResponse struct {
	MailingList MailingList `json:"list"`
}

// DeleteMailingListResponse is returned by DeleteMailingList
type DeleteMailingListResponse struct {
	Address string `json:"address"`
	Status  string `json:"message"`
}

// AddMemberResponse is returned by AddMember
type AddMemberResponse struct {
	Member MailingListMember `json:"member"`
	Status string            `json:"message"`
}

// UpdateMemberResponse is returned by the member update calls
type UpdateMemberResponse struct {
	Member MailingListMember `json:"member"`
	Status string            `json:"message"`
}

// ListMembersResponse is returned by ListMembers
type ListMembersResponse struct {
	TotalCount int                 `json:"total_count"`
	Members    []MailingListMember `json:"items"`
}

// RemoveMemberResponse is returned by RemoveMember
type RemoveMemberResponse struct {
	Member struct {
		Address string `json:"address"`
	} `json:"member"`
	Status string `json:"message"`
}

// Address returns the address of the removed member
func (r RemoveMemberResponse) Address() string {
	return r.Member.Address
}

// CreateRouteResponse is returned by CreateRoute
type CreateRouteResponse struct {
	Route  Route  `json:"route"`
	Status string `json:"message"`
}

// GetRouteResponse is returned by GetRoute
type GetRouteResponse struct {
	Route Route `json:"route"`
}

// ListRoutesResponse is returned by ListRoutes
type ListRoutesResponse struct {
	TotalCount int     `json:"total_count"`
	Routes     []Route `json:"items"`
}

// UpdateRouteResponse is returned by the route update calls. The remote
// answers with the route's fields at the top level plus a message.
type UpdateRouteResponse struct {
	Route
	Status string `json:"message"`
}

// UnmarshalJSON decodes the flattened route and its status message
func (u *UpdateRouteResponse) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &u.Route); err != nil {
		return err
	}
	var status struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &status); err != nil {
		return err
	}
	u.Status = status.Message
	return nil
}

// DeleteRouteResponse is returned by DeleteRoute
type DeleteRouteResponse struct {
	RouteID string `json:"id"`
	Status  string `json:"message"`
}

// SendMessageResponse is returned by the send calls
type SendMessageResponse struct {
	MessageID string `json:"id"`
	Status    string `json:"message"`
}
