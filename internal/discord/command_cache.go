package discord

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Pushed command hashes live next to the datastore, one file per guild.
func guildCachePath(guildID string) string {
	return filepath.Join("data", "command-hashes", guildID+".json")
}

func loadGuildCommandHashes(guildID string) map[string]string {
	hashes := make(map[string]string)
	if file, err := os.ReadFile(guildCachePath(guildID)); err == nil {
		_ = json.Unmarshal(file, &hashes)
	}
	return hashes
}

func saveGuildCommandHashes(guildID string, hashes map[string]string) {
	path := guildCachePath(guildID)
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	data, _ := json.MarshalIndent(hashes, "", "  ")
	_ = os.WriteFile(path, data, 0644)
}
