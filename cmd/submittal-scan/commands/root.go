package commands

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/danielokoye/submittal-scan/internal/common"
)

var (
	envFile string
	verbose bool
	noColor bool

	cfg *common.Config
)

var rootCmd = &cobra.Command{
	Use:   "submittal-scan",
	Short: "Extract product listings from construction submittal PDFs",
	Long: `submittal-scan walks each page of a submittal PDF, decides whether it is a
product listing page, and extracts manufacturer and product names into a
cleaned CSV. Run without arguments for the interactive menu.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing env file is fine; the environment may already be set.
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return err
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				// Drop timestamps; the dotted event name carries the context.
				if a.Key == slog.TimeKey {
					return slog.Attr{}
				}
				return a
			},
		}))
		slog.SetDefault(logger)

		if noColor {
			color.NoColor = true
		}

		cfg = common.LoadConfig()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file to load")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
