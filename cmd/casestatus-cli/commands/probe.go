package commands

import (
	"casestatus-backend/internal/components/telemetry"
	"casestatus-backend/internal/portal"
	"casestatus-backend/internal/scrapers/casestatus"
	"fmt"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	portalURL string
	limit     *int
)

func init() {
	for _, cmd := range []*cobra.Command{probeCmd, caseTypesCmd} {
		cmd.Flags().StringVar(&portalURL, "url", casestatus.DefaultPortalURL, "Url of the portal's case status page.")
	}
	limit = caseTypesCmd.Flags().IntP("limit", "n", 5, "How many suggestions to show.")

	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(caseTypesCmd)
}

func fetchForm(cmd *cobra.Command) (portal.Form, error) {
	client, err := portal.NewClient(portalURL, telemetry.SlogAPI{})
	if err != nil {
		return portal.Form{}, err
	}
	return client.FetchForm(cmd.Context())
}

var probeCmd = &cobra.Command{
	Use:   "probe [--url <portal url>]",
	Short: "Checks that the portal still serves the lookup form the scraper drives.",
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := fetchForm(cmd)
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{"Control", "Selector", "Status"})
		for _, control := range form.Controls {
			status := color.New(color.FgGreen).Sprint("OK")
			if !control.Present {
				status = color.New(color.FgRed).Sprint("MISSING")
			}
			t.AppendRow(table.Row{control.Name, control.Selector, status})
		}
		t.Render()
		fmt.Printf("%d case types offered\n", len(form.CaseTypes))

		if !form.Ready() {
			return fmt.Errorf("lookup form is missing %d controls", len(form.MissingControls()))
		}
		return nil
	},
}

var caseTypesCmd = &cobra.Command{
	Use:   "case-types [query]",
	Short: "Lists the case types the portal offers, or the closest matches to query.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := fetchForm(cmd)
		if err != nil {
			return err
		}

		t := newTable()
		if len(args) == 0 {
			t.AppendHeader(table.Row{"Case type"})
			for _, caseType := range form.CaseTypes {
				t.AppendRow(table.Row{caseType})
			}
			t.Render()
			return nil
		}

		t.AppendHeader(table.Row{"Case type", "Similarity"})
		for _, suggestion := range portal.SuggestCaseTypes(form.CaseTypes, args[0], *limit) {
			t.AppendRow(table.Row{suggestion.CaseType, fmt.Sprintf("%.2f", suggestion.Score)})
		}
		t.Render()
		return nil
	},
}
