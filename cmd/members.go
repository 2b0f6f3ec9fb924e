package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/mgctl/mailgun"
)

var (
	memberName         string
	memberAddress      string
	memberVars         []string
	memberUnsubscribed bool
	memberSubscribed   bool
	memberNoUpsert     bool
	pageLimit          int
	pageSkip           int
)

// membersCmd groups the mailing list member commands
var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage mailing list members",
}

var membersListCmd = &cobra.Command{
	Use:   "list <alias>",
	Short: "List the members of a mailing list",
	Args:  cobra.ExactArgs(1),
	RunE:  runMembersList,
}

var membersAddCmd = &cobra.Command{
	Use:   "add <alias> <email>",
	Short: "Add a member to a mailing list",
	Long: `Add a member to a mailing list. Existing members are updated unless
--no-upsert is given.

Custom variables are passed as repeated --var key=value flags.`,
	Args: cobra.ExactArgs(2),
	RunE: runMembersAdd,
}

var membersUpdateCmd = &cobra.Command{
	Use:   "update <alias> <email>",
	Short: "Update a mailing list member",
	Args:  cobra.ExactArgs(2),
	RunE:  runMembersUpdate,
}

var membersRemoveCmd = &cobra.Command{
	Use:   "remove <alias> <email>",
	Short: "Remove a member from a mailing list",
	Args:  cobra.ExactArgs(2),
	RunE:  runMembersRemove,
}

var membersImportCmd = &cobra.Command{
	Use:   "import <alias> <file>",
	Short: "Add members from a file",
	Long: `Add members from a file holding one "email[,name]" per line.
Blank lines and lines starting with # are ignored. Use - to read stdin.

Members are added concurrently, bounded by batch.concurrency.`,
	Args: cobra.ExactArgs(2),
	RunE: runMembersImport,
}

func init() {
	membersListCmd.Flags().IntVar(&pageLimit, "limit", mailgun.DefaultPageLimit, "maximum number of members to return")
	membersListCmd.Flags().IntVar(&pageSkip, "skip", 0, "number of members to skip")

	membersAddCmd.Flags().StringVar(&memberName, "name", "", "member name")
	membersAddCmd.Flags().StringArrayVar(&memberVars, "var", nil, "custom variable as key=value (repeatable)")
	membersAddCmd.Flags().BoolVar(&memberUnsubscribed, "unsubscribed", false, "add the member as unsubscribed")
	membersAddCmd.Flags().BoolVar(&memberNoUpsert, "no-upsert", false, "fail if the member already exists")

	membersUpdateCmd.Flags().StringVar(&memberAddress, "address", "", "new email address")
	membersUpdateCmd.Flags().StringVar(&memberName, "name", "", "new member name")
	membersUpdateCmd.Flags().StringArrayVar(&memberVars, "var", nil, "replace custom variables with key=value pairs (repeatable)")
	membersUpdateCmd.Flags().BoolVar(&memberSubscribed, "subscribed", true, "subscription status")

	membersRemoveCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")

	membersCmd.AddCommand(membersListCmd, membersAddCmd, membersUpdateCmd, membersRemoveCmd, membersImportCmd)
}

func runMembersList(cmd *cobra.Command, args []string) error {
	resp, err := check(client.Lists().ListMembers(cmd.Context(), args[0], pageLimit, pageSkip))
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}

	if len(resp.Members) == 0 {
		fmt.Println("No members found.")
		return nil
	}

	fmt.Printf("\nFound %d of %d members:\n", len(resp.Members), resp.TotalCount)
	fmt.Println(strings.Repeat("━", 85))
	fmt.Printf("%-40s %-30s %s\n", "ADDRESS", "NAME", "SUBSCRIBED")
	fmt.Println(strings.Repeat("━", 85))
	for _, m := range resp.Members {
		fmt.Printf("%-40s %-30s %t\n", truncate(m.Address, 40), truncate(orDash(m.Name), 30), m.Subscribed)
	}
	fmt.Println(strings.Repeat("━", 85))

	return nil
}

func runMembersAdd(cmd *cobra.Command, args []string) error {
	vars, err := parseKeyValues(memberVars)
	if err != nil {
		return err
	}

	resp, err := check(client.Lists().AddMember(cmd.Context(), args[0], args[1], mailgun.MemberParams{
		Name:       memberName,
		Vars:       vars,
		Subscribed: mailgun.Bool(!memberUnsubscribed),
		Upsert:     mailgun.Bool(!memberNoUpsert),
	}))
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	fmt.Printf("✓ %s: %s\n", resp.Member.Address, resp.Status)
	return nil
}

func runMembersUpdate(cmd *cobra.Command, args []string) error {
	var update mailgun.MemberUpdate

	if cmd.Flags().Changed("address") {
		update.Address = mailgun.String(memberAddress)
	}
	if cmd.Flags().Changed("name") {
		update.Name = mailgun.String(memberName)
	}
	if cmd.Flags().Changed("var") {
		vars, err := parseKeyValues(memberVars)
		if err != nil {
			return err
		}
		update.Vars = vars
	}
	if cmd.Flags().Changed("subscribed") {
		update.Subscribed = mailgun.Bool(memberSubscribed)
	}

	resp, err := check(client.Lists().UpdateMember(cmd.Context(), args[0], args[1], update))
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	fmt.Printf("✓ %s: %s\n", resp.Member.Address, resp.Status)
	return nil
}

func runMembersRemove(cmd *cobra.Command, args []string) error {
	if !noConfirm && !confirm(fmt.Sprintf("Remove %s from %s?", args[1], args[0])) {
		fmt.Println("Removal cancelled.")
		return nil
	}

	resp, err := check(client.Lists().RemoveMember(cmd.Context(), args[0], args[1]))
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	fmt.Printf("✓ %s: %s\n", resp.Address(), resp.Status)
	return nil
}

func runMembersImport(cmd *cobra.Command, args []string) error {
	in := os.Stdin
	if args[1] != "-" {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open member file: %w", err)
		}
		defer f.Close()
		in = f
	}

	members, err := parseMemberLines(in)
	if err != nil {
		return err
	}
	if len(members) == 0 {
		fmt.Println("No members to import.")
		return nil
	}

	logger.Info().
		Str("list", args[0]).
		Int("members", len(members)).
		Int("concurrency", cfg.Batch.Concurrency).
		Msg("Importing members...")

	result, err := client.Lists().AddMembers(cmd.Context(), args[0], members)
	if err != nil {
		return fmt.Errorf("failed to import members: %w", err)
	}

	fmt.Printf("\nImport complete: %d added, %d failed\n", len(result.Added), len(result.Failed))
	for _, failure := range result.Failed {
		fmt.Printf("✗ %s: %s\n", failure.Email, failure.Message)
	}

	if result.HasErrors() {
		return fmt.Errorf("%d of %d members could not be added", len(result.Failed), result.Requested)
	}
	return nil
}
