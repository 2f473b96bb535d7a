package commands

import (
	"casestatus-backend/internal/apiclient"
	"casestatus-backend/internal/components/chrono"
	"casestatus-backend/internal/components/telemetry"
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	serverURL *string
	verbose   *bool
)

func init() {
	serverURL = rootCmd.PersistentFlags().String("server", "http://localhost:8000", "Base url of the casestatus-server.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging.")
}

var rootCmd = &cobra.Command{
	Use:   "casestatus-cli",
	Short: "casestatus-cli looks up court case status through a casestatus-server and checks the portal.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newClient() *apiclient.Client {
	return apiclient.NewClient(*serverURL, chrono.NewStandardImpl(), telemetry.SlogAPI{})
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}
