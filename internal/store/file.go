package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ensureJSONFile creates path with defaultContent if it does not exist yet
func ensureJSONFile(path string, defaultContent interface{}) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return writeJSONFile(path, defaultContent)
}

// writeJSONFile replaces the whole file: marshal, write to a temp file in the
// same directory, rename over the target
func writeJSONFile(path string, content interface{}) error {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return err
	}

	tmp := fmt.Sprintf("%s.tmp", path)
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
