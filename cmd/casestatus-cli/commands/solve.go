package commands

import (
	"casestatus-backend/internal/captcha"
	"casestatus-backend/internal/captcha/tesseract"
	"casestatus-backend/internal/components/telemetry"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(solveCmd)
}

var solveCmd = &cobra.Command{
	Use:   "solve <image.png>",
	Short: "Runs the captcha solver on a saved challenge image.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		solver := captcha.NewSolver(tesseract.NewRecognizer(), telemetry.SlogAPI{})
		fmt.Println(solver.SolveFile(cmd.Context(), args[0]))
	},
}
