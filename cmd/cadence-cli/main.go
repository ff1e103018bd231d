// Cadence CLI — инструмент командной строки для управления
// кампаниями и очередью отправки через HTTP API.
//
// Использование:
//
//	cadence [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	campaign  Управление кампаниями
//	queue     Просмотр очереди отправки
//	account   Аккаунты workspace
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Cadence/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "cadence",
		Short:         "Cadence CLI — campaign send scheduler tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewCampaignCmd(clientFn, outputFn),
		cli.NewQueueCmd(clientFn, outputFn),
		cli.NewAccountCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
