package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewAccountCmd создаёт группу команд для аккаунтов workspace.
func NewAccountCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage workspace accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(clientFn, outputFn),
		newAccountShowCmd(clientFn, outputFn),
	)

	return cmd
}

var accountHeaders = []string{"ID", "NAME", "DAILY_LIMIT", "CREATED"}

func accountRow(a AccountResponse) []string {
	return []string{a.ID, a.Name, strconv.Itoa(a.DailyLimit), a.CreatedAt}
}

func newAccountListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workspace accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			accounts, err := client.ListAccounts()
			if err != nil {
				return err
			}

			rows := make([][]string, len(accounts))
			for i, a := range accounts {
				rows[i] = accountRow(a)
			}

			out.Print(accountHeaders, rows, accounts)
			return nil
		},
	}
}

func newAccountShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show account details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			account, err := client.GetAccount(args[0])
			if err != nil {
				return err
			}

			out.Print(accountHeaders, [][]string{accountRow(*account)}, account)
			return nil
		},
	}
}
