package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewCampaignCmd создаёт группу команд для управления кампаниями.
func NewCampaignCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Manage campaigns",
	}

	cmd.AddCommand(
		newCampaignListCmd(clientFn, outputFn),
		newCampaignShowCmd(clientFn, outputFn),
		newCampaignPauseCmd(clientFn, outputFn),
		newCampaignResumeCmd(clientFn, outputFn),
		newCampaignProspectsCmd(clientFn, outputFn),
	)

	return cmd
}

var campaignHeaders = []string{"ID", "NAME", "ACCOUNT", "STATUS", "AUTO", "CREATED"}

func campaignRow(c CampaignResponse) []string {
	return []string{c.ID, c.Name, c.AccountID, c.Status, strconv.FormatBool(c.AutoExecute), c.CreatedAt}
}

func newCampaignListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List campaigns",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			campaigns, err := client.ListCampaigns()
			if err != nil {
				return err
			}

			rows := make([][]string, len(campaigns))
			for i, c := range campaigns {
				rows[i] = campaignRow(c)
			}

			out.Print(campaignHeaders, rows, campaigns)
			return nil
		},
	}
}

func newCampaignShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show campaign details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			campaign, err := client.GetCampaign(args[0])
			if err != nil {
				return err
			}

			out.Print(campaignHeaders, [][]string{campaignRow(*campaign)}, campaign)
			return nil
		},
	}
}

func newCampaignPauseCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "pause ID",
		Short: "Pause a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			campaign, err := client.PauseCampaign(args[0])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Campaign paused: %s", campaign.ID))
			out.Print(campaignHeaders, [][]string{campaignRow(*campaign)}, campaign)
			return nil
		},
	}
}

func newCampaignResumeCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "resume ID",
		Short: "Resume a paused campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			campaign, err := client.ResumeCampaign(args[0])
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Campaign resumed: %s", campaign.ID))
			out.Print(campaignHeaders, [][]string{campaignRow(*campaign)}, campaign)
			return nil
		},
	}
}

func newCampaignProspectsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "prospects CAMPAIGN_ID",
		Short: "List campaign prospects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			prospects, err := client.ListProspects(args[0])
			if err != nil {
				return err
			}

			headers := []string{"ID", "NAME", "COMPANY", "STATUS", "PROVIDER_ID", "CONTACTED"}
			rows := make([][]string, len(prospects))
			for i, p := range prospects {
				rows[i] = []string{
					p.ID,
					p.FirstName + " " + p.LastName,
					p.CompanyName,
					p.Status,
					p.ProviderID,
					p.ContactedAt,
				}
			}

			out.Print(headers, rows, prospects)
			return nil
		},
	}
}
