package remote

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DeviceID returns a stable per-install identifier, creating one on first
// use. It is attached to pushed documents so records from different devices
// can be told apart after a pull.
func DeviceID(configDir string) string {
	path := filepath.Join(configDir, "device_id")
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(configDir, 0755); err == nil {
		_ = os.WriteFile(path, []byte(id+"\n"), 0644)
	}
	return id
}
