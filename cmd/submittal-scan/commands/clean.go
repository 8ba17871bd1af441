package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/danielokoye/submittal-scan/cmd/submittal-scan/ui"
	"github.com/danielokoye/submittal-scan/internal/export"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <csv...>",
	Short: "Re-run the cleaning pass over existing product CSVs",
	Long: `Clean drops rows with unknown products or manufacturers, strips trademark
glyphs, and removes duplicate product names in place. It is safe to run on an
already-cleaned file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			res, err := export.Clean(path, slog.Default())
			if err != nil {
				return err
			}
			ui.Success("%s: kept %d row(s), removed %d duplicate(s)", path, res.Kept, res.DuplicatesRemoved)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
