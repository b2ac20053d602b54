package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"staffinvoice/internal/domain/invoice"
)

// loadRequest reads a YAML or JSON request file.
func loadRequest(path string) (invoice.Request, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return invoice.Request{}, fmt.Errorf("read request %s: %w", path, err)
	}
	var req invoice.Request
	if err := yaml.Unmarshal(b, &req); err != nil {
		return invoice.Request{}, fmt.Errorf("parse request %s: %w", path, err)
	}
	return req, nil
}
