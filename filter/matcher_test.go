package filter

import (
	"testing"

	"github.com/s0up4200/mgctl/mailgun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routeIDs(matches []Match) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Route.ID)
	}
	return ids
}

func TestMatcherOrderAndStop(t *testing.T) {
	routes := []mailgun.Route{
		{ID: "fallback", Priority: 10, Expression: mailgun.CatchAll(), Actions: []string{mailgun.Store("")}},
		{ID: "support", Priority: 1, Expression: mailgun.MatchRecipient("support@.*"), Actions: []string{mailgun.Forward("ops@example.com")}},
		{ID: "urgent", Priority: 1, Expression: mailgun.MatchHeader("subject", "urgent"), Actions: mailgun.NewActions().Forward("pager@example.com").Stop().List()},
		{ID: "first", Priority: 0, Expression: mailgun.MatchRecipient("nobody@.*"), Actions: []string{mailgun.Stop()}},
	}

	m, err := NewMatcher(routes)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Len())

	t.Run("stop ends evaluation", func(t *testing.T) {
		matches, err := m.Match(Inbound{
			Recipient: "support@example.com",
			Headers:   map[string][]string{"Subject": {"Urgent issue"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"support", "urgent"}, routeIDs(matches))
		assert.False(t, matches[0].Stopped)
		assert.True(t, matches[1].Stopped)
	})

	t.Run("falls through to catch all", func(t *testing.T) {
		matches, err := m.Match(Inbound{Recipient: "sales@example.com"})
		require.NoError(t, err)
		assert.Equal(t, []string{"fallback"}, routeIDs(matches))
	})
}

func TestMatcherNoMatch(t *testing.T) {
	m, err := NewMatcher([]mailgun.Route{
		{ID: "r1", Expression: mailgun.MatchRecipient("a@.*")},
	})
	require.NoError(t, err)

	matches, err := m.Match(Inbound{Recipient: "b@example.com"})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatcherCompileError(t *testing.T) {
	_, err := NewMatcher([]mailgun.Route{
		{ID: "broken", Expression: `match_everything()`},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	var compErr *CompilationError
	assert.ErrorAs(t, err, &compErr)
}

func TestMatcherEvaluationError(t *testing.T) {
	m, err := NewMatcher([]mailgun.Route{
		{ID: "bad-regex", Expression: `match_recipient("[")`},
	}, WithCompiler(NewExprCompiler()))
	require.NoError(t, err)

	_, err = m.Match(Inbound{Recipient: "a@example.com"})
	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "bad-regex", evalErr.RouteID)
	assert.Contains(t, err.Error(), "bad-regex")
}
