package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/mgctl/mailgun"
)

var (
	listName        string
	listDescription string
	listAccess      string
	listAlias       string
	noConfirm       bool
)

// listsCmd groups the mailing list commands
var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Manage mailing lists",
}

var listsCreateCmd = &cobra.Command{
	Use:   "create <alias>",
	Short: "Create a mailing list at <alias>@<domain>",
	Args:  cobra.ExactArgs(1),
	RunE:  runListsCreate,
}

var listsGetCmd = &cobra.Command{
	Use:   "get <alias>",
	Short: "Show a mailing list",
	Args:  cobra.ExactArgs(1),
	RunE:  runListsGet,
}

var listsUpdateCmd = &cobra.Command{
	Use:   "update <alias>",
	Short: "Update a mailing list",
	Long: `Update a mailing list. Only the flags given are changed.

--alias renames the list to <alias>@<domain>.`,
	Args: cobra.ExactArgs(1),
	RunE: runListsUpdate,
}

var listsDeleteCmd = &cobra.Command{
	Use:   "delete <alias>",
	Short: "Delete a mailing list",
	Args:  cobra.ExactArgs(1),
	RunE:  runListsDelete,
}

func init() {
	listsCreateCmd.Flags().StringVar(&listName, "name", "", "display name")
	listsCreateCmd.Flags().StringVar(&listDescription, "description", "", "description")
	listsCreateCmd.Flags().StringVar(&listAccess, "access", "readonly", "access level (readonly, members, everyone)")

	listsUpdateCmd.Flags().StringVar(&listAlias, "alias", "", "new alias")
	listsUpdateCmd.Flags().StringVar(&listName, "name", "", "new display name")
	listsUpdateCmd.Flags().StringVar(&listDescription, "description", "", "new description")
	listsUpdateCmd.Flags().StringVar(&listAccess, "access", "", "new access level (readonly, members, everyone)")

	listsDeleteCmd.Flags().BoolVar(&noConfirm, "no-confirm", false, "skip confirmation prompt")

	listsCmd.AddCommand(listsCreateCmd, listsGetCmd, listsUpdateCmd, listsDeleteCmd)
}

func runListsCreate(cmd *cobra.Command, args []string) error {
	access, err := parseAccess(listAccess)
	if err != nil {
		return err
	}

	resp, err := check(client.Lists().CreateMailingList(cmd.Context(), args[0], mailgun.MailingListParams{
		Name:        listName,
		Description: listDescription,
		AccessLevel: access,
	}))
	if err != nil {
		return fmt.Errorf("failed to create mailing list: %w", err)
	}

	logger.Info().Str("address", resp.MailingList.Address).Msg(resp.Status)
	printMailingList(resp.MailingList)
	return nil
}

func runListsGet(cmd *cobra.Command, args []string) error {
	resp, err := check(client.Lists().GetMailingList(cmd.Context(), args[0]))
	if err != nil {
		return fmt.Errorf("failed to get mailing list: %w", err)
	}

	printMailingList(resp.MailingList)
	return nil
}

func runListsUpdate(cmd *cobra.Command, args []string) error {
	var update mailgun.MailingListUpdate

	if cmd.Flags().Changed("alias") {
		update.Alias = mailgun.String(listAlias)
	}
	if cmd.Flags().Changed("name") {
		update.Name = mailgun.String(listName)
	}
	if cmd.Flags().Changed("description") {
		update.Description = mailgun.String(listDescription)
	}
	if cmd.Flags().Changed("access") {
		access, err := parseAccess(listAccess)
		if err != nil {
			return err
		}
		update.AccessLevel = &access
	}

	resp, err := check(client.Lists().UpdateMailingList(cmd.Context(), args[0], update))
	if err != nil {
		return fmt.Errorf("failed to update mailing list: %w", err)
	}

	logger.Info().Str("address", resp.MailingList.Address).Msg(resp.Status)
	printMailingList(resp.MailingList)
	return nil
}

func runListsDelete(cmd *cobra.Command, args []string) error {
	if !noConfirm && !confirm(fmt.Sprintf("Delete mailing list %s and all its members?", args[0])) {
		fmt.Println("Deletion cancelled.")
		return nil
	}

	resp, err := check(client.Lists().DeleteMailingList(cmd.Context(), args[0]))
	if err != nil {
		return fmt.Errorf("failed to delete mailing list: %w", err)
	}

	fmt.Printf("✓ %s: %s\n", resp.Address, resp.Status)
	return nil
}

// parseAccess accepts the three access levels Mailgun knows
func parseAccess(s string) (mailgun.AccessLevel, error) {
	switch level := mailgun.AccessLevel(s); level {
	case mailgun.AccessReadonly, mailgun.AccessMembers, mailgun.AccessEveryone:
		return level, nil
	}
	return "", fmt.Errorf("invalid access level: %s (must be readonly, members or everyone)", s)
}

func printMailingList(l mailgun.MailingList) {
	fmt.Printf("\n%s\n", l.Address)
	fmt.Printf("- Name: %s\n", orDash(l.Name))
	fmt.Printf("- Description: %s\n", orDash(l.Description))
	fmt.Printf("- Access level: %s\n", l.AccessLevel)
	fmt.Printf("- Members: %d\n", l.MembersCount)
	if !l.CreatedAt.IsZero() {
		fmt.Printf("- Created: %s\n", l.CreatedAt.Format("2006-01-02 15:04"))
	}
}
