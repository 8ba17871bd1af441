package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/danielokoye/submittal-scan/internal/llm"
)

// CleanResult summarizes the post-run cleaning pass.
type CleanResult struct {
	Kept              int
	DuplicatesRemoved int
}

// Clean rewrites the product CSV in place:
//  1. drops rows where product name or manufacturer is "Unknown",
//  2. strips decorative trademark glyphs and trims whitespace on every field,
//  3. deduplicates by product name only, keeping the first occurrence even
//     when a later row names a different manufacturer,
//  4. writes header plus surviving rows back, preserving order.
//
// Running it again on an already-cleaned file is a no-op.
func Clean(path string, logger *slog.Logger) (CleanResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return CleanResult{}, fmt.Errorf("open csv: %w", err)
	}
	records, err := csv.NewReader(f).ReadAll()
	_ = f.Close()
	if err != nil {
		return CleanResult{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return CleanResult{}, fmt.Errorf("csv %s has no header", path)
	}
	header, rows := records[0], records[1:]

	valid := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 || row[0] == llm.UnknownField || row[1] == llm.UnknownField {
			continue
		}
		cleaned := make([]string, len(row))
		for i, field := range row {
			cleaned[i] = strings.TrimSpace(stripDecorative(field))
		}
		valid = append(valid, cleaned)
	}

	seen := make(map[string]struct{}, len(valid))
	kept := make([][]string, 0, len(valid))
	for _, row := range valid {
		if _, dup := seen[row[0]]; dup {
			continue
		}
		seen[row[0]] = struct{}{}
		kept = append(kept, row)
	}

	out, err := os.Create(path)
	if err != nil {
		return CleanResult{}, fmt.Errorf("rewrite csv: %w", err)
	}
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		_ = out.Close()
		return CleanResult{}, fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(kept); err != nil {
		_ = out.Close()
		return CleanResult{}, fmt.Errorf("write rows: %w", err)
	}
	if err := out.Close(); err != nil {
		return CleanResult{}, err
	}

	res := CleanResult{Kept: len(kept), DuplicatesRemoved: len(valid) - len(kept)}
	logger.Info("export.clean.ok",
		"path", path,
		"kept", res.Kept,
		"duplicates_removed", res.DuplicatesRemoved,
	)
	return res, nil
}

// stripDecorative removes trademark-style glyphs and private-use symbols
// that PDFs embed around brand names.
func stripDecorative(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '™', '®', '©':
			return -1
		}
		// Symbol fonts map decorations into the BMP private use area.
		if r >= 0xE000 && r <= 0xF8FF {
			return -1
		}
		return r
	}, s)
}
