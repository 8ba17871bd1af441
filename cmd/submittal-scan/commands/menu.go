package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danielokoye/submittal-scan/cmd/submittal-scan/ui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Interactive menu for choosing which PDFs to process",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd)
	},
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

// runMenu loops a numbered menu until the user exits. Invalid input reprompts
// rather than exiting.
func runMenu(cmd *cobra.Command) error {
	runner, cleanup, err := newRunner(cmd.Context(), writeXLSX)
	if err != nil {
		return err
	}
	defer cleanup()

	for {
		files, err := listPDFs(cfg)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			ui.Warning("no PDFs found in %s and no documents file", cfg.Paths.InputDir)
			return nil
		}

		ui.Newline()
		ui.Message("Available PDFs:")
		for i, pdfPath := range files {
			ui.Message("  %d. %s", i+1, filepath.Base(pdfPath))
		}
		ui.Message("  %d. Process all PDFs", len(files)+1)
		ui.Message("  0. Exit")

		choice, err := ui.PromptInt("Enter your choice")
		if err != nil {
			ui.Error("invalid choice, enter a number")
			continue
		}

		switch {
		case choice == 0:
			return nil
		case choice == len(files)+1:
			if err := processFiles(cmd.Context(), runner, files); err != nil {
				return err
			}
		case choice >= 1 && choice <= len(files):
			if err := processFiles(cmd.Context(), runner, files[choice-1:choice]); err != nil {
				return err
			}
		default:
			ui.Error("choice must be between 0 and %d", len(files)+1)
		}
	}
}
