package mailgun

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
)

// ListManager wraps the mailing list endpoints. Lists are addressed by
// alias; the full address is alias@domain.
type ListManager struct {
	domain      string
	pipeline    *pipeline
	concurrency int
}

// NewListManager creates a standalone mailing list manager with its own
// connection.
func NewListManager(domain, apiKey string, logger zerolog.Logger, opts ...Option) (*ListManager, error) {
	c, err := NewClient(domain, apiKey, logger, opts...)
	if err != nil {
		return nil, err
	}
	return c.Lists(), nil
}

// MailingListParams holds the optional fields of a new mailing list
type MailingListParams struct {
	Name        string
	Description string
	// AccessLevel defaults to readonly
	AccessLevel AccessLevel
}

// MailingListUpdate lists the fields to change; nil fields are left untouched
type MailingListUpdate struct {
	Alias       *string
	Name        *string
	Description *string
	AccessLevel *AccessLevel
}

// MemberParams holds the optional fields of a new member
type MemberParams struct {
	Name string
	// Vars is omitted when nil and sent as {} when empty
	Vars map[string]string
	// Subscribed defaults to true
	Subscribed *bool
	// Upsert defaults to true
	Upsert *bool
}

// MemberUpdate lists the member fields to change; nil fields are left untouched
type MemberUpdate struct {
	Address    *string
	Name       *string
	Vars       map[string]string
	Subscribed *bool
}

func (m *ListManager) address(alias string) string {
	return alias + "@" + m.domain
}

// Domain returns the sending domain list addresses are built on
func (m *ListManager) Domain() string {
	return m.domain
}

// CreateMailingList creates a list at alias@domain
func (m *ListManager) CreateMailingList(ctx context.Context, alias string, params MailingListParams) (Result[CreateMailingListResponse], error) {
	if err := requireArg("alias", alias); err != nil {
		return Result[CreateMailingListResponse]{}, err
	}

	form := NewForm()
	form.AddValue("address", m.address(alias))
	form.AddString("name", optional(params.Name))
	form.AddString("description", optional(params.Description))
	form.AddValue("access_level", params.AccessLevel.String())

	return send[CreateMailingListResponse](ctx, m.pipeline, &request{
		operation: "create_list",
		method:    http.MethodPost,
		path:      endpoint("lists"),
		form:      form,
	}), nil
}

// GetMailingList fetches a single list
func (m *ListManager) GetMailingList(ctx context.Context, list string) (Result[GetMailingListResponse], error) {
	if err := requireArg("list", list); err != nil {
		return Result[GetMailingListResponse]{}, err
	}

	return send[GetMailingListResponse](ctx, m.pipeline, &request{
		operation: "get_list",
		method:    http.MethodGet,
		path:      endpoint("lists", m.address(list)),
	}), nil
}

// UpdateMailingList changes the non-nil fields of update
func (m *ListManager) UpdateMailingList(ctx context.Context, list string, update MailingListUpdate) (Result[UpdateMailingListResponse], error) {
	if err := requireArg("list", list); err != nil {
		return Result[UpdateMailingListResponse]{}, err
	}

	form := NewForm()
	if update.Alias != nil {
		form.AddValue("address", m.address(*update.Alias))
	}
	form.AddString("name", update.Name)
	form.AddString("description", update.Description)
	if update.AccessLevel != nil {
		form.AddValue("access_level", update.AccessLevel.String())
	}

	return send[UpdateMailingListResponse](ctx, m.pipeline, &request{
		operation: "update_list",
		method:    http.MethodPut,
		path:      endpoint("lists", m.address(list)),
		form:      form,
	}), nil
}

// UpdateMailingListAlias moves the list to alias@domain
func (m *ListManager) UpdateMailingListAlias(ctx context.Context, list, alias string) (Result[UpdateMailingListResponse], error) {
	if err := requireArgs("list", list, "alias", alias); err != nil {
		return Result[UpdateMailingListResponse]{}, err
	}
	return m.UpdateMailingList(ctx, list, MailingListUpdate{Alias: &alias})
}

// UpdateMailingListName changes the display name
func (m *ListManager) UpdateMailingListName(ctx context.Context, list, name string) (Result[UpdateMailingListResponse], error) {
	if err := requireArgs("list", list, "name", name); err != nil {
		return Result[UpdateMailingListResponse]{}, err
	}
	return m.UpdateMailingList(ctx, list, MailingListUpdate{Name: &name})
}

// UpdateMailingListDescription changes the description
func (m *ListManager) UpdateMailingListDescription(ctx context.Context, list, description string) (Result[UpdateMailingListResponse], error) {
	if err := requireArgs("list", list, "description", description); err != nil {
		return Result[UpdateMailingListResponse]{}, err
	}
	return m.UpdateMailingList(ctx, list, MailingListUpdate{Description: &description})
}

// UpdateMailingListAccess changes who may post to the list
func (m *ListManager) UpdateMailingListAccess(ctx context.Context, list string, access AccessLevel) (Result[UpdateMailingListResponse], error) {
	return m.UpdateMailingList(ctx, list, MailingListUpdate{AccessLevel: &access})
}

// DeleteMailingList removes a list and its members
func (m *ListManager) DeleteMailingList(ctx context.Context, list string) (Result[DeleteMailingListResponse], error) {
	if err := requireArg("list", list); err != nil {
		return Result[DeleteMailingListResponse]{}, err
	}

	return send[DeleteMailingListResponse](ctx, m.pipeline, &request{
		operation: "delete_list",
		method:    http.MethodDelete,
		path:      endpoint("lists", m.address(list)),
	}), nil
}

// ListMembers pages through the members of a list. A non-positive limit
// falls back to DefaultPageLimit.
func (m *ListManager) ListMembers(ctx context.Context, list string, limit, skip int) (Result[ListMembersResponse], error) {
	if err := requireArg("list", list); err != nil {
		return Result[ListMembersResponse]{}, err
	}

	return send[ListMembersResponse](ctx, m.pipeline, &request{
		operation: "list_members",
		method:    http.MethodGet,
		path:      endpoint("lists", m.address(list), "members"),
		query:     pageQuery(limit, skip),
	}), nil
}

// AddMember adds email to the list, subscribed and upserted unless params
// say otherwise
func (m *ListManager) AddMember(ctx context.Context, list, email string, params MemberParams) (Result[AddMemberResponse], error) {
	if err := requireArgs("list", list, "email", email); err != nil {
		return Result[AddMemberResponse]{}, err
	}

	subscribed, upsert := params.Subscribed, params.Upsert
	if subscribed == nil {
		subscribed = Bool(true)
	}
	if upsert == nil {
		upsert = Bool(true)
	}

	form := NewForm()
	form.AddValue("address", email)
	form.AddString("name", optional(params.Name))
	if err := form.AddVars("vars", params.Vars); err != nil {
		return Fail[AddMemberResponse](err.Error()), nil
	}
	form.AddBool("subscribed", subscribed, BoolYesNo)
	form.AddBool("upsert", upsert, BoolYesNo)

	return send[AddMemberResponse](ctx, m.pipeline, &request{
		operation: "add_member",
		method:    http.MethodPost,
		path:      endpoint("lists", m.address(list), "members"),
		form:      form,
	}), nil
}

// UpdateMember changes the non-nil fields of update
func (m *ListManager) UpdateMember(ctx context.Context, list, member string, update MemberUpdate) (Result[UpdateMemberResponse], error) {
	if err := requireArgs("list", list, "member", member); err != nil {
		return Result[UpdateMemberResponse]{}, err
	}

	form := NewForm()
	form.AddString("address", update.Address)
	form.AddString("name", update.Name)
	if err := form.AddVars("vars", update.Vars); err != nil {
		return Fail[UpdateMemberResponse](err.Error()), nil
	}
	form.AddBool("subscribed", update.Subscribed, BoolYesNo)

	return send[UpdateMemberResponse](ctx, m.pipeline, &request{
		operation: "update_member",
		method:    http.MethodPut,
		path:      endpoint("lists", m.address(list), "members", member),
		form:      form,
	}), nil
}

// UpdateMemberAddress changes a member's email address
func (m *ListManager) UpdateMemberAddress(ctx context.Context, list, member, email string) (Result[UpdateMemberResponse], error) {
	if err := requireArg("email", email); err != nil {
		return Result[UpdateMemberResponse]{}, err
	}
	return m.UpdateMember(ctx, list, member, MemberUpdate{Address: &email})
}

// UpdateMemberName changes a member's display name
func (m *ListManager) UpdateMemberName(ctx context.Context, list, member, name string) (Result[UpdateMemberResponse], error) {
	if err := requireArg("name", name); err != nil {
		return Result[UpdateMemberResponse]{}, err
	}
	return m.UpdateMember(ctx, list, member, MemberUpdate{Name: &name})
}

// UpdateMemberVars replaces a member's variables. An empty map clears them.
func (m *ListManager) UpdateMemberVars(ctx context.Context, list, member string, vars map[string]string) (Result[UpdateMemberResponse], error) {
	if vars == nil {
		return Result[UpdateMemberResponse]{}, &ArgumentError{Argument: "vars", Reason: "must not be nil"}
	}
	return m.UpdateMember(ctx, list, member, MemberUpdate{Vars: vars})
}

// UpdateMemberStatus subscribes or unsubscribes a member
func (m *ListManager) UpdateMemberStatus(ctx context.Context, list, member string, subscribed bool) (Result[UpdateMemberResponse], error) {
	return m.UpdateMember(ctx, list, member, MemberUpdate{Subscribed: &subscribed})
}

// RemoveMember deletes a member from the list
func (m *ListManager) RemoveMember(ctx context.Context, list, member string) (Result[RemoveMemberResponse], error) {
	if err := requireArgs("list", list, "member", member); err != nil {
		return Result[RemoveMemberResponse]{}, err
	}

	return send[RemoveMemberResponse](ctx, m.pipeline, &request{
		operation: "remove_member",
		method:    http.MethodDelete,
		path:      endpoint("lists", m.address(list), "members", member),
	}), nil
}

// DefaultPageLimit is used by the listing calls when no limit is given
const DefaultPageLimit = 100

func pageQuery(limit, skip int) url.Values {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if skip < 0 {
		skip = 0
	}
	return url.Values{
		"skip":  {strconv.Itoa(skip)},
		"limit": {strconv.Itoa(limit)},
	}
}
