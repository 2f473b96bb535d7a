package commands

import (
	"casestatus-backend/internal/apiclient"
	"casestatus-backend/internal/scrapers/casestatus"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	caseType   *string
	caseNumber *string
	caseYear   *string
	wait       *bool
)

func init() {
	caseType = searchCmd.Flags().String("type", "", "Case type, ex. WP.")
	caseNumber = searchCmd.Flags().String("number", "", "Case number.")
	caseYear = searchCmd.Flags().String("year", "", "Case registration year.")
	wait = searchCmd.Flags().Bool("wait", false, "Poll until the lookup finishes and print the result.")
	searchCmd.MarkFlagRequired("type")
	searchCmd.MarkFlagRequired("number")
	searchCmd.MarkFlagRequired("year")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(resultCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search --type <type> --number <number> --year <year> [--wait]",
	Short: "Submits a case lookup.",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		submitted, err := client.Search(cmd.Context(), casestatus.CaseQuery{
			CaseType:   *caseType,
			CaseNumber: *caseNumber,
			CaseYear:   *caseYear,
		})
		if err != nil {
			return err
		}
		fmt.Printf("job %s %s\n", submitted.JobID, color.New(color.FgYellow).Sprint(submitted.Status))
		if !*wait {
			return nil
		}

		result, err := client.Wait(cmd.Context(), submitted.JobID, time.Second*2)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

var resultCmd = &cobra.Command{
	Use:   "result <job_id>",
	Short: "Prints the state of a submitted lookup.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := newClient().Result(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

func printResult(result apiclient.ResultResponse) {
	switch result.Status {
	case "processing":
		fmt.Println(color.New(color.FgYellow).Sprint("processing"))
		return
	case "error":
		label := "FAILED"
		if result.Kind == casestatus.RESULT_NOT_FOUND.String() {
			label = "NOT FOUND"
		}
		fmt.Printf("%s %s\n", color.New(color.FgRed).Sprint(label), result.Error)
		return
	}

	fmt.Println(color.New(color.FgGreen).Sprint("complete"))
	if result.Result == nil {
		return
	}
	t := newTable()
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Petitioner", orDash(result.Result.Petitioner)},
		{"Respondent", orDash(result.Result.Respondent)},
		{"Filing date", orDash(result.Result.FilingDate)},
		{"Next hearing date", orDash(result.Result.NextHearingDate)},
	})
	t.Render()
}

func orDash(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}
