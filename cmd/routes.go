package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/mgctl/filter"
	"github.com/s0up4200/mgctl/mailgun"
)

var (
	routePriority    int
	routeDescription string
	routeExpression  string
	routeForward     []string
	routeStore       bool
	routeNotify      string
	routeStop        bool
	routeActions     []string
	matchRecipient   string
	matchHeaders     []string
)

// routesCmd groups the inbound route commands
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Manage inbound routes",
	Long: `Manage inbound routes. Filters use Mailgun's expression language:

  match_recipient("support@.*")
  match_header("subject", ".*urgent.*")
  catch_all()

Expressions may be combined with and, or and not.`,
}

var routesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List routes",
	Args:  cobra.NoArgs,
	RunE:  runRoutesList,
}

var routesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a route",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoutesGet,
}

var routesCreateCmd = &cobra.Command{
	Use:   "create <expression>",
	Short: "Create a route",
	Long: `Create a route. Actions run in the order given: every --forward, then
--store, then --stop. Raw action strings can be given with --action.

The expression is compiled locally before anything is sent.`,
	Args: cobra.ExactArgs(1),
	RunE: runRoutesCreate,
}

var routesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a route",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoutesUpdate,
}

var routesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a route",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoutesDelete,
}

var routesMatchCmd = &cobra.Command{
	Use:   "match",
	Short: "Show which routes an inbound message would trigger",
	Long: `Fetch the configured routes and evaluate them locally against a
recipient and headers, in priority order, honoring stop().`,
	Args: cobra.NoArgs,
	RunE: runRoutesMatch,
}

func init() {
	routesListCmd.Flags().IntVar(&pageLimit, "limit", mailgun.DefaultPageLimit, "maximum number of routes to return")
	routesListCmd.Flags().IntVar(&pageSkip, "skip", 0, "number of routes to skip")

	for _, c := range []*cobra.Command{routesCreateCmd, routesUpdateCmd} {
		c.Flags().IntVar(&routePriority, "priority", 0, "route priority, lower runs first")
		c.Flags().StringVar(&routeDescription, "description", "", "description")
		c.Flags().StringArrayVar(&routeForward, "forward", nil, "forward to an address or URL (repeatable)")
		c.Flags().BoolVar(&routeStore, "store", false, "store the message")
		c.Flags().StringVar(&routeNotify, "notify", "", "URL notified when a message is stored")
		c.Flags().BoolVar(&routeStop, "stop", false, "stop evaluating lower priority routes")
		c.Flags().StringArrayVar(&routeActions, "action", nil, "raw action string (repeatable)")
	}
	routesUpdateCmd.Flags().StringVar(&routeExpression, "expression", "", "new filter expression")

	routesDeleteCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")

	routesMatchCmd.Flags().StringVar(&matchRecipient, "recipient", "", "recipient address")
	routesMatchCmd.Flags().StringArrayVar(&matchHeaders, "header", nil, "header as name=value (repeatable)")
	_ = routesMatchCmd.MarkFlagRequired("recipient")

	routesCmd.AddCommand(routesListCmd, routesGetCmd, routesCreateCmd, routesUpdateCmd, routesDeleteCmd, routesMatchCmd)
}

// buildActions assembles the action flags in execution order
func buildActions() []string {
	actions := mailgun.NewActions()
	for _, dest := range routeForward {
		actions.Forward(dest)
	}
	if routeStore {
		actions.Store(routeNotify)
	}
	if routeStop {
		actions.Stop()
	}
	return append(actions.List(), routeActions...)
}

func runRoutesList(cmd *cobra.Command, args []string) error {
	resp, err := check(client.Routes().ListRoutes(cmd.Context(), pageLimit, pageSkip))
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}

	if len(resp.Routes) == 0 {
		fmt.Println("No routes found.")
		return nil
	}

	fmt.Printf("\nFound %d of %d routes:\n", len(resp.Routes), resp.TotalCount)
	fmt.Println(strings.Repeat("━", 100))
	fmt.Printf("%-26s %-8s %-40s %s\n", "ID", "PRIORITY", "EXPRESSION", "ACTIONS")
	fmt.Println(strings.Repeat("━", 100))
	for _, r := range resp.Routes {
		fmt.Printf("%-26s %-8d %-40s %s\n", r.ID, r.Priority, truncate(r.Expression, 40), strings.Join(r.Actions, ", "))
	}
	fmt.Println(strings.Repeat("━", 100))

	return nil
}

func runRoutesGet(cmd *cobra.Command, args []string) error {
	resp, err := check(client.Routes().GetRoute(cmd.Context(), args[0]))
	if err != nil {
		return fmt.Errorf("failed to get route: %w", err)
	}

	printRoute(resp.Route)
	return nil
}

func runRoutesCreate(cmd *cobra.Command, args []string) error {
	if _, err := filter.NewExprCompiler().Compile(args[0]); err != nil {
		return fmt.Errorf("invalid route expression: %w", err)
	}

	params := mailgun.RouteParams{Description: routeDescription}
	if cmd.Flags().Changed("priority") {
		params.Priority = mailgun.Int(routePriority)
	}

	resp, err := check(client.Routes().CreateRoute(cmd.Context(), args[0], buildActions(), params))
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}

	logger.Info().Str("id", resp.Route.ID).Msg(resp.Status)
	printRoute(resp.Route)
	return nil
}

func runRoutesUpdate(cmd *cobra.Command, args []string) error {
	var update mailgun.RouteUpdate

	if cmd.Flags().Changed("priority") {
		update.Priority = mailgun.Int(routePriority)
	}
	if cmd.Flags().Changed("description") {
		update.Description = mailgun.String(routeDescription)
	}
	if cmd.Flags().Changed("expression") {
		if _, err := filter.NewExprCompiler().Compile(routeExpression); err != nil {
			return fmt.Errorf("invalid route expression: %w", err)
		}
		update.Expression = mailgun.String(routeExpression)
	}
	update.Actions = buildActions()

	resp, err := check(client.Routes().UpdateRoute(cmd.Context(), args[0], update))
	if err != nil {
		return fmt.Errorf("failed to update route: %w", err)
	}

	logger.Info().Str("id", resp.ID).Msg(resp.Status)
	printRoute(resp.Route)
	return nil
}

func runRoutesDelete(cmd *cobra.Command, args []string) error {
	if !noConfirm && !confirm(fmt.Sprintf("Delete route %s?", args[0])) {
		fmt.Println("Deletion cancelled.")
		return nil
	}

	resp, err := check(client.Routes().DeleteRoute(cmd.Context(), args[0]))
	if err != nil {
		return fmt.Errorf("failed to delete route: %w", err)
	}

	fmt.Printf("✓ %s: %s\n", resp.RouteID, resp.Status)
	return nil
}

func runRoutesMatch(cmd *cobra.Command, args []string) error {
	headers, err := parseHeaders(matchHeaders)
	if err != nil {
		return err
	}

	var routes []mailgun.Route
	for skip := 0; ; {
		resp, err := check(client.Routes().ListRoutes(cmd.Context(), mailgun.DefaultPageLimit, skip))
		if err != nil {
			return fmt.Errorf("failed to list routes: %w", err)
		}
		routes = append(routes, resp.Routes...)
		skip += len(resp.Routes)
		if len(resp.Routes) == 0 || skip >= resp.TotalCount {
			break
		}
	}

	matcher, err := filter.NewMatcher(routes, filter.WithLogger(logger))
	if err != nil {
		return err
	}

	matches, err := matcher.Match(filter.Inbound{Recipient: matchRecipient, Headers: headers})
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Printf("No routes match %s (%d evaluated).\n", matchRecipient, matcher.Len())
		return nil
	}

	fmt.Printf("\n%d of %d routes match %s:\n", len(matches), matcher.Len(), matchRecipient)
	for _, m := range matches {
		fmt.Printf("• [%d] %s %s\n", m.Route.Priority, m.Route.ID, m.Route.Expression)
		for _, action := range m.Route.Actions {
			fmt.Printf("    → %s\n", action)
		}
		if m.Stopped {
			fmt.Println("  stop() ends evaluation here")
		}
	}
	return nil
}

// parseHeaders groups repeated name=value flags by header name
func parseHeaders(pairs []string) (map[string][]string, error) {
	headers := make(map[string][]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header: %q (expected name=value)", pair)
		}
		headers[name] = append(headers[name], value)
	}
	return headers, nil
}

func printRoute(r mailgun.Route) {
	fmt.Printf("\nRoute %s\n", r.ID)
	fmt.Printf("- Priority: %d\n", r.Priority)
	fmt.Printf("- Expression: %s\n", r.Expression)
	fmt.Printf("- Description: %s\n", orDash(r.Description))
	for _, action := range r.Actions {
		fmt.Printf("- Action: %s\n", action)
	}
	if !r.CreatedAt.IsZero() {
		fmt.Printf("- Created: %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
