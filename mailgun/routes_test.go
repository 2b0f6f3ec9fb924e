package mailgun

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routeBody = `{
	"route": {
		"id": "4f3bad2335335426750048c6",
		"priority": 1,
		"description": "Sample route",
		"expression": "match_recipient(\".*@mg.example.com\")",
		"actions": ["forward(\"http://myhost.com/messages/\")", "stop()"],
		"created_at": "Wed, 15 Feb 2012 13:03:31 GMT"
	},
	"message": "Route has been created"
}`

func TestCreateRoute(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, routeBody)
	routes := api.client().Routes()

	actions := NewActions().Forward("http://myhost.com/messages/").Stop().List()
	res, err := routes.CreateRoute(context.Background(), MatchRecipient(".*@mg.example.com"), actions, RouteParams{
		Priority:    Int(1),
		Description: "Sample route",
	})
	require.NoError(t, err)
	require.True(t, res.Successful, res.ErrorMessage())

	got := api.last()
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/routes", got.Path)
	assert.Equal(t, []string{"1"}, got.Values["priority"])
	assert.Equal(t, []string{"Sample route"}, got.Values["description"])
	assert.Equal(t, []string{`match_recipient(".*@mg.example.com")`}, got.Values["expression"])
	assert.Equal(t, []string{`forward("http://myhost.com/messages/")`, "stop()"}, got.Values["action"])

	assert.Equal(t, "4f3bad2335335426750048c6", res.Response.Route.ID)
	assert.Equal(t, "Route has been created", res.Response.Status)
	assert.True(t, res.Response.Route.HasAction("stop()"))
}

func TestCreateRouteOmitsOptionalFields(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, routeBody)

	_, err := api.client().Routes().CreateRoute(context.Background(), CatchAll(), []string{Store("")}, RouteParams{})
	require.NoError(t, err)

	got := api.last()
	assert.NotContains(t, got.Values, "priority")
	assert.NotContains(t, got.Values, "description")
	assert.Equal(t, []string{"store()"}, got.Values["action"])
}

func TestRouteArgumentErrors(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{}`)
	routes := api.client().Routes()
	ctx := context.Background()

	_, err := routes.CreateRoute(ctx, "", []string{Stop()}, RouteParams{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = routes.CreateRoute(ctx, CatchAll(), nil, RouteParams{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = routes.GetRoute(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = routes.UpdateRouteActions(ctx, "abc", []string{})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = routes.DeleteRoute(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, 0, api.count())
}

func TestGetRoute(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, routeBody)

	res, err := api.client().Routes().GetRoute(context.Background(), "4f3bad2335335426750048c6")
	require.NoError(t, err)
	require.True(t, res.Successful)

	got := api.last()
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/routes/4f3bad2335335426750048c6", got.Path)
	assert.Equal(t, 1, res.Response.Route.Priority)
	assert.Len(t, res.Response.Route.Actions, 2)
}

func TestListRoutes(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"total_count":1,"items":[{"id":"r1","priority":0,"description":false,"expression":"catch_all()","actions":["stop()"],"created_at":"Wed, 15 Feb 2012 13:03:31 GMT"}]}`)

	res, err := api.client().Routes().ListRoutes(context.Background(), 25, 50)
	require.NoError(t, err)
	require.True(t, res.Successful, res.ErrorMessage())

	got := api.last()
	assert.Equal(t, "/routes", got.Path)
	assert.Equal(t, "25", got.Query.Get("limit"))
	assert.Equal(t, "50", got.Query.Get("skip"))
	require.Len(t, res.Response.Routes, 1)
	assert.Equal(t, "false", res.Response.Routes[0].Description)
}

func TestUpdateRoute(t *testing.T) {
	body := `{"id":"r1","priority":3,"description":"Updated","expression":"catch_all()","actions":["stop()"],"created_at":"Wed, 15 Feb 2012 13:03:31 GMT","message":"Route has been updated"}`

	tests := []struct {
		name   string
		call   func(*RouteManager) (Result[UpdateRouteResponse], error)
		fields map[string][]string
	}{
		{
			name: "priority",
			call: func(m *RouteManager) (Result[UpdateRouteResponse], error) {
				return m.UpdateRoutePriority(context.Background(), "r1", 3)
			},
			fields: map[string][]string{"id": {"r1"}, "priority": {"3"}},
		},
		{
			name: "description",
			call: func(m *RouteManager) (Result[UpdateRouteResponse], error) {
				return m.UpdateRouteDescription(context.Background(), "r1", "Updated")
			},
			fields: map[string][]string{"id": {"r1"}, "description": {"Updated"}},
		},
		{
			name: "filter",
			call: func(m *RouteManager) (Result[UpdateRouteResponse], error) {
				return m.UpdateRouteFilter(context.Background(), "r1", CatchAll())
			},
			fields: map[string][]string{"id": {"r1"}, "expression": {"catch_all()"}},
		},
		{
			name: "actions",
			call: func(m *RouteManager) (Result[UpdateRouteResponse], error) {
				return m.UpdateRouteActions(context.Background(), "r1", []string{Store("http://cb"), Stop()})
			},
			fields: map[string][]string{"id": {"r1"}, "action": {`store(notify="http://cb")`, "stop()"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t, http.StatusOK, body)

			res, err := tt.call(api.client().Routes())
			require.NoError(t, err)
			require.True(t, res.Successful, res.ErrorMessage())

			got := api.last()
			assert.Equal(t, http.MethodPut, got.Method)
			assert.Equal(t, "/routes/r1", got.Path)
			assert.Equal(t, tt.fields, got.Values)

			assert.Equal(t, "r1", res.Response.ID)
			assert.Equal(t, 3, res.Response.Priority)
			assert.Equal(t, "Route has been updated", res.Response.Status)
		})
	}
}

func TestDeleteRoute(t *testing.T) {
	api := newFakeAPI(t, http.StatusOK, `{"id":"r1","message":"Route has been deleted"}`)

	res, err := api.client().Routes().DeleteRoute(context.Background(), "r1")
	require.NoError(t, err)
	require.True(t, res.Successful)

	assert.Equal(t, http.MethodDelete, api.last().Method)
	assert.Equal(t, "r1", res.Response.RouteID)
	assert.Equal(t, "Route has been deleted", res.Response.Status)
}

func TestRouteUnauthorized(t *testing.T) {
	api := newFakeAPI(t, http.StatusUnauthorized, `Forbidden`)

	res, err := api.client().Routes().ListRoutes(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.False(t, res.Successful)
	assert.Equal(t, "Unauthorized — no valid API key provided", res.ErrorMessage())
	assert.ErrorIs(t, res.Err(), ErrUnauthorized)
}
