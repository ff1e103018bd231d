package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

// NewQueueCmd создаёт группу команд для просмотра очереди отправки.
func NewQueueCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the send queue",
	}

	cmd.AddCommand(
		newQueueListCmd(clientFn, outputFn),
		newQueueStatsCmd(clientFn, outputFn),
	)

	return cmd
}

func newQueueListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list CAMPAIGN_ID",
		Short: "List queue items of a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			items, err := client.ListQueue(args[0], ListQueueOpts{Status: status, Limit: limit})
			if err != nil {
				return err
			}

			headers := []string{"ID", "TYPE", "STATUS", "ATTEMPTS", "SCHEDULED", "SENT", "ERROR"}
			rows := make([][]string, len(items))
			for i, item := range items {
				rows[i] = []string{
					item.ID,
					item.MessageType,
					item.Status,
					strconv.Itoa(item.Attempts),
					item.ScheduledFor,
					item.SentAt,
					item.ErrorMessage,
				}
			}

			out.Print(headers, rows, items)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending/processing/sent/failed)")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of items")

	return cmd
}

func newQueueStatsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "stats CAMPAIGN_ID",
		Short: "Show queue counters of a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			stats, err := client.QueueStats(args[0])
			if err != nil {
				return err
			}

			headers := []string{"PENDING", "PROCESSING", "SENT", "FAILED"}
			rows := [][]string{{
				strconv.Itoa(stats.Pending),
				strconv.Itoa(stats.Processing),
				strconv.Itoa(stats.Sent),
				strconv.Itoa(stats.Failed),
			}}

			out.Print(headers, rows, stats)
			return nil
		},
	}
}
