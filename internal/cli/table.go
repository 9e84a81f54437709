package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pakalnivut/backend/internal/table"
	"github.com/pakalnivut/backend/internal/tui"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print a navigator's dispatch table",
	Long: `Print a navigator's dispatch table with the time remaining until each
squad arrives. Row numbers refer to the sorted order and are what the spot
and reset-spot commands expect.`,
	Args: cobra.NoArgs,
	RunE: runTable,
}

var (
	tableOpts tableFlags
	tableJSON bool
)

var spotCmd = &cobra.Command{
	Use:   "spot <row>",
	Short: "Add a spot to a row of the sorted table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSpotEdit(cmd, args, &spotOpts, false)
	},
}

var resetSpotCmd = &cobra.Command{
	Use:   "reset-spot <row>",
	Short: "Reset the spots of a row of the sorted table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSpotEdit(cmd, args, &resetOpts, true)
	},
}

var (
	spotOpts  tableFlags
	resetOpts tableFlags
)

func init() {
	tableOpts.register(tableCmd)
	tableCmd.Flags().BoolVar(&tableJSON, "json", false, "print the table as JSON")
	spotOpts.register(spotCmd)
	resetOpts.register(resetSpotCmd)

	rootCmd.AddCommand(tableCmd, spotCmd, resetSpotCmd)
}

func runTable(cmd *cobra.Command, args []string) error {
	nav, state, err := tableOpts.parse()
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return printView(cmd, a.Presenter.View(nav, state), tableJSON)
}

func runSpotEdit(cmd *cobra.Command, args []string, opts *tableFlags, reset bool) error {
	nav, state, err := opts.parse()
	if err != nil {
		return err
	}
	row, err := strconv.Atoi(args[0])
	if err != nil || row < 1 {
		return fmt.Errorf("row must be a positive integer, got %q", args[0])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	edit := a.Presenter.IncrementSpot
	if reset {
		edit = a.Presenter.ResetSpot
	}
	v, err := edit(nav, state, row-1)
	if err != nil {
		return err
	}
	return printView(cmd, v, false)
}

func printView(cmd *cobra.Command, v table.View, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v.Model())
	}

	fmt.Fprintln(out, tui.Banner(v.Navigator, v.Now.String()))
	fmt.Fprintln(out)
	fmt.Fprint(out, tui.RenderTable(v, -1))
	return nil
}
