package mailgun

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
)

// RouteManager wraps the inbound route endpoints
type RouteManager struct {
	pipeline *pipeline
}

// NewRouteManager creates a standalone route manager with its own connection.
// Routes are account-wide, the domain is only used for validation.
func NewRouteManager(domain, apiKey string, logger zerolog.Logger, opts ...Option) (*RouteManager, error) {
	c, err := NewClient(domain, apiKey, logger, opts...)
	if err != nil {
		return nil, err
	}
	return c.Routes(), nil
}

// RouteParams holds the optional fields of a new route
type RouteParams struct {
	Priority    *int
	Description string
}

// RouteUpdate lists the fields to change; nil fields are left untouched
type RouteUpdate struct {
	Priority    *int
	Description *string
	Expression  *string
	// Actions replaces the whole action list when non-empty
	Actions []string
}

// CreateRoute creates a route evaluating expression and running actions in order
func (m *RouteManager) CreateRoute(ctx context.Context, expression string, actions []string, params RouteParams) (Result[CreateRouteResponse], error) {
	if err := requireArg("expression", expression); err != nil {
		return Result[CreateRouteResponse]{}, err
	}
	if len(actions) == 0 {
		return Result[CreateRouteResponse]{}, &ArgumentError{Argument: "actions", Reason: "at least one action is required"}
	}

	form := NewForm()
	form.AddInt("priority", params.Priority)
	form.AddString("description", optional(params.Description))
	form.AddValue("expression", expression)
	form.AddStrings("action", actions)

	return send[CreateRouteResponse](ctx, m.pipeline, &request{
		operation: "create_route",
		method:    http.MethodPost,
		path:      endpoint("routes"),
		form:      form,
	}), nil
}

// GetRoute fetches a route by id
func (m *RouteManager) GetRoute(ctx context.Context, id string) (Result[GetRouteResponse], error) {
	if err := requireArg("id", id); err != nil {
		return Result[GetRouteResponse]{}, err
	}

	return send[GetRouteResponse](ctx, m.pipeline, &request{
		operation: "get_route",
		method:    http.MethodGet,
		path:      endpoint("routes", id),
	}), nil
}

// ListRoutes returns up to limit routes after skipping skip of them
func (m *RouteManager) ListRoutes(ctx context.Context, limit, skip int) (Result[ListRoutesResponse], error) {
	return send[ListRoutesResponse](ctx, m.pipeline, &request{
		operation: "list_routes",
		method:    http.MethodGet,
		path:      endpoint("routes"),
		query:     pageQuery(limit, skip),
	}), nil
}

// UpdateRoute changes the non-nil fields of update on route id
func (m *RouteManager) UpdateRoute(ctx context.Context, id string, update RouteUpdate) (Result[UpdateRouteResponse], error) {
	if err := requireArg("id", id); err != nil {
		return Result[UpdateRouteResponse]{}, err
	}

	form := NewForm()
	form.AddValue("id", id)
	form.AddInt("priority", update.Priority)
	form.AddString("description", update.Description)
	form.AddString("expression", update.Expression)
	form.AddStrings("action", update.Actions)

	return send[UpdateRouteResponse](ctx, m.pipeline, &request{
		operation: "update_route",
		method:    http.MethodPut,
		path:      endpoint("routes", id),
		form:      form,
	}), nil
}

// UpdateRoutePriority changes the evaluation priority, lower runs first
func (m *RouteManager) UpdateRoutePriority(ctx context.Context, id string, priority int) (Result[UpdateRouteResponse], error) {
	return m.UpdateRoute(ctx, id, RouteUpdate{Priority: &priority})
}

// UpdateRouteDescription changes the description
func (m *RouteManager) UpdateRouteDescription(ctx context.Context, id, description string) (Result[UpdateRouteResponse], error) {
	if err := requireArg("description", description); err != nil {
		return Result[UpdateRouteResponse]{}, err
	}
	return m.UpdateRoute(ctx, id, RouteUpdate{Description: &description})
}

// UpdateRouteFilter changes the filter expression
func (m *RouteManager) UpdateRouteFilter(ctx context.Context, id, expression string) (Result[UpdateRouteResponse], error) {
	if err := requireArg("expression", expression); err != nil {
		return Result[UpdateRouteResponse]{}, err
	}
	return m.UpdateRoute(ctx, id, RouteUpdate{Expression: &expression})
}

// UpdateRouteActions replaces the action list
func (m *RouteManager) UpdateRouteActions(ctx context.Context, id string, actions []string) (Result[UpdateRouteResponse], error) {
	if len(actions) == 0 {
		return Result[UpdateRouteResponse]{}, &ArgumentError{Argument: "actions", Reason: "at least one action is required"}
	}
	return m.UpdateRoute(ctx, id, RouteUpdate{Actions: actions})
}

// DeleteRoute removes a route
func (m *RouteManager) DeleteRoute(ctx context.Context, id string) (Result[DeleteRouteResponse], error) {
	if err := requireArg("id", id); err != nil {
		return Result[DeleteRouteResponse]{}, err
	}

	return send[DeleteRouteResponse](ctx, m.pipeline, &request{
		operation: "delete_route",
		method:    http.MethodDelete,
		path:      endpoint("routes", id),
	}), nil
}
