package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// LoadFile decodes a TOML config file into target. Keys present in the file
// overwrite the matching fields; everything else is left untouched.
func LoadFile(path string, target any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("config file path is required")
	}
	meta, err := toml.DecodeFile(path, target)
	if err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("config file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}
