// Package cli implements the navlog command line.
package cli

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/pakalnivut/backend/internal/app"
	"github.com/pakalnivut/backend/internal/config"
	"github.com/pakalnivut/backend/internal/models"
	"github.com/pakalnivut/backend/internal/table"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "navlog",
	Short: "Navigation dispatch log",
	Long: `navlog logs squad dispatches for two navigators, computes their
estimated arrival and shows how much time remains until each squad arrives.

It reads and writes the same data directory as the dispatch server.`,
	SilenceUsage: true,
}

var (
	cfgFile string
	nowFunc = time.Now
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is navlog.yaml next to the executable)")
}

// openApp loads the configuration and wires storage for one command.
func openApp() (*app.App, error) {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	// Keep log lines out of the terminal.
	if cfg.Logging.Directory == "" {
		cfg.Logging.Directory = filepath.Join(cfg.GetDataDir(), "logs")
	}
	return app.Open(cfg, nowFunc)
}

// tableFlags are shared by commands that address a sorted table.
type tableFlags struct {
	nav  int
	sort string
	dir  string
}

func (f *tableFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.nav, "nav", "n", 1, "navigator (1 or 2)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "sort column: number, name, distance, spots, delivering, arrival, gap")
	cmd.Flags().StringVar(&f.dir, "dir", "asc", "sort direction: asc or desc")
}

func (f *tableFlags) parse() (models.NavigatorID, table.State, error) {
	nav, err := models.ParseNavigatorID(strconv.Itoa(f.nav))
	if err != nil {
		return 0, table.State{}, err
	}
	state, err := table.ParseState(f.sort, f.dir)
	if err != nil {
		return 0, table.State{}, err
	}
	return nav, state, nil
}
