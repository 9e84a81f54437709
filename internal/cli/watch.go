package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pakalnivut/backend/internal/tui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show a live navigator table",
	Long: `Show a navigator's table with a running clock. Gaps refresh on the
configured interval; spots can be edited from the keyboard.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchOpts tableFlags

func init() {
	watchOpts.register(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	nav, state, err := watchOpts.parse()
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	m := tui.NewWatchModel(a.Presenter, tui.WatchOptions{
		Navigator: nav,
		State:     state,
		Now:       a.Now,
		ClockTick: a.Config.ClockInterval(),
		GapTick:   a.Config.GapInterval(),
	})

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	_, err = p.Run()
	return err
}
