package common

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DocumentsFile is the YAML file listing the PDFs offered by the menu.
type DocumentsFile struct {
	Documents []string `yaml:"documents"`
}

// LoadDocuments reads the configured document list. A missing file is not an
// error; the caller may still process explicit paths.
func LoadDocuments(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, WrapError(err, "read documents file")
	}
	var df DocumentsFile
	if err := yaml.Unmarshal(b, &df); err != nil {
		return nil, fmt.Errorf("parse documents file %s: %w", path, err)
	}
	return df.Documents, nil
}
