package commands

import (
	"github.com/spf13/cobra"

	"github.com/danielokoye/submittal-scan/cmd/submittal-scan/ui"
)

var (
	writeXLSX  bool
	jsonOutput bool
)

var processCmd = &cobra.Command{
	Use:   "process [pdf...]",
	Short: "Process one or more submittal PDFs into product CSVs",
	Long: `Process runs the page pipeline over each given PDF. With no arguments it
processes every document from the documents file and the input directory.
Each document gets its own output CSV; a document that fails to open is
reported and the rest of the batch continues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files := args
		if len(files) == 0 {
			var err error
			files, err = listPDFs(cfg)
			if err != nil {
				return err
			}
		}
		if len(files) == 0 {
			ui.Warning("no PDFs found in %s and no documents file", cfg.Paths.InputDir)
			return nil
		}

		runner, cleanup, err := newRunner(cmd.Context(), writeXLSX)
		if err != nil {
			return err
		}
		defer cleanup()

		return processFiles(cmd.Context(), runner, files)
	},
}

func init() {
	processCmd.Flags().BoolVar(&writeXLSX, "xlsx", false, "also write an XLSX copy of each cleaned CSV")
	processCmd.Flags().BoolVar(&jsonOutput, "json-extractor", false, "parse extractor responses as schema-validated JSON")
	rootCmd.AddCommand(processCmd)
}
