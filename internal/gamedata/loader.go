package gamedata

import (
	"encoding/json"
	"fmt"
)

// Load reads and unmarshals a JSON file from the embedded filesystem.
func Load[T any](filename string) (T, error) {
	var result T
	if err := LoadInto(filename, &result); err != nil {
		return result, err
	}
	return result, nil
}

// LoadInto unmarshals an embedded JSON file over dst. Fields absent from the
// file keep whatever value dst already held.
func LoadInto[T any](filename string, dst *T) error {
	content, err := dataFS.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read embedded file %s: %w", filename, err)
	}
	if err := json.Unmarshal(content, dst); err != nil {
		return fmt.Errorf("failed to parse JSON from %s: %w", filename, err)
	}
	return nil
}

// must panics on err. Use it for data the game cannot run without.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
