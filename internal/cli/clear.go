package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Erase both navigators' tables",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

var clearYes bool

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if !clearYes {
		fmt.Fprint(out, "Clear both navigators' tables? [y/N] ")
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(out, "Aborted")
			return nil
		}
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Service.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear tables: %w", err)
	}
	fmt.Fprintln(out, "Cleared both tables")
	return nil
}
