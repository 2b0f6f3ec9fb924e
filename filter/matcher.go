package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/s0up4200/mgctl/mailgun"
)

// Inbound is the part of an incoming message routes are matched against
type Inbound struct {
	Recipient string
	Headers   map[string][]string
}

// HeaderValues returns every value of header, matching its name case-insensitively
func (m Inbound) HeaderValues(header string) []string {
	var values []string
	for name, v := range m.Headers {
		if strings.EqualFold(name, header) {
			values = append(values, v...)
		}
	}
	return values
}

// Match is a route that matched an inbound message
type Match struct {
	Route mailgun.Route
	// Stopped is set when the route's actions end evaluation
	Stopped bool
}

type compiledRoute struct {
	route  mailgun.Route
	filter CompiledFilter
}

// Matcher evaluates a set of routes locally, in Mailgun's priority order
type Matcher struct {
	routes []compiledRoute
	logger zerolog.Logger
}

// MatcherOption configures a Matcher
type MatcherOption func(*matcherOptions)

type matcherOptions struct {
	compiler Compiler
	logger   zerolog.Logger
}

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) MatcherOption {
	return func(o *matcherOptions) {
		o.compiler = compiler
	}
}

// WithLogger sets the logger used for per-route debug output
func WithLogger(logger zerolog.Logger) MatcherOption {
	return func(o *matcherOptions) {
		o.logger = logger
	}
}

// NewMatcher compiles every route expression. Routes are ordered by
// ascending priority; equal priorities keep their input order.
func NewMatcher(routes []mailgun.Route, opts ...MatcherOption) (*Matcher, error) {
	options := matcherOptions{
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.compiler == nil {
		options.compiler = NewExprCompiler(WithCache(len(routes) + 1))
	}

	compiled := make([]compiledRoute, 0, len(routes))
	for _, route := range routes {
		f, err := options.compiler.Compile(route.Expression)
		if err != nil {
			return nil, fmt.Errorf("failed to compile route '%s': %w", route.ID, err)
		}
		compiled = append(compiled, compiledRoute{route: route, filter: f})
	}

	slices.SortStableFunc(compiled, func(a, b compiledRoute) int {
		return a.route.Priority - b.route.Priority
	})

	return &Matcher{routes: compiled, logger: options.logger}, nil
}

// Len returns the number of routes
func (m *Matcher) Len() int {
	return len(m.routes)
}

// Match returns the routes msg triggers, in evaluation order. Evaluation
// ends after the first matching route carrying a stop() action.
func (m *Matcher) Match(msg Inbound) ([]Match, error) {
	var matches []Match

	for _, cr := range m.routes {
		ok, err := cr.filter.Match(msg)
		if err != nil {
			if evalErr, isEval := err.(*EvaluationError); isEval {
				evalErr.RouteID = cr.route.ID
			}
			return matches, err
		}

		m.logger.Debug().
			Str("route", cr.route.ID).
			Int("priority", cr.route.Priority).
			Bool("matched", ok).
			Msg("Evaluated route")

		if !ok {
			continue
		}

		stop := cr.route.HasAction(mailgun.Stop())
		matches = append(matches, Match{Route: cr.route, Stopped: stop})
		if stop {
			break
		}
	}

	return matches, nil
}
