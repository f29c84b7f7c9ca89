package main

import (
	"fmt"
	"io"
	"os"

	"image-gallery/internal/filesystem"
	"image-gallery/internal/logging"
	"image-gallery/internal/memory"
	"image-gallery/internal/metrics"
	"image-gallery/internal/startup"
	"image-gallery/internal/vips"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// cli carries flag values and injected I/O shared by every subcommand.
type cli struct {
	configPath  string
	metricsFile string
	verbose     bool

	cfg *startup.Config

	in         io.Reader
	isTerminal func() bool
}

// NewRootCmd returns the gallery command tree reading confirmations from
// stdin.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&cli{
		in: os.Stdin,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	})
}

func newRootCmd(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gallery",
		Short:         "Browse image folders with cached square thumbnails",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       startup.Version,

		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, built: %s)\n",
		startup.Commit,
		startup.BuildTime,
	))

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "Path to a TOML config file")
	pf.StringVar(&c.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(c.newDirsCmd())
	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newThumbsCmd())
	rootCmd.AddCommand(c.newDeleteCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return rootCmd
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		logging.SetLevel(logging.LevelDebug)
	}

	cfg, err := startup.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("metrics-file") {
		cfg.MetricsFile = c.metricsFile
	}
	c.cfg = cfg

	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
	filesystem.SetObserver(metrics.NewFilesystemObserver())
	memory.ConfigureFromEnv()

	if cfg.UseVips {
		if err := vips.Init(); err != nil {
			logging.Warn("libvips unavailable, using Go decoders only: %v", err)
		}
	}
	return nil
}

func (c *cli) teardown(_ *cobra.Command, _ []string) error {
	if c.cfg == nil || c.cfg.MetricsFile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(c.cfg.MetricsFile); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	logging.Debug("Metrics written to %s", c.cfg.MetricsFile)
	return nil
}
