package metrics

import (
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes every metric gathered from reg to path in the text
// exposition format. The write goes through a temp file and rename, as the
// node-exporter textfile collector expects.
func WriteTextfile(reg *prom.Registry, path string) error {
	if reg == nil {
		return fmt.Errorf("metrics registry is nil")
	}
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
