package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// LocalPath returns the path of the local override for a config file,
// paprikaplate.json5 -> paprikaplate.local.json5
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

func readFile[T any](path string) (T, bool, error) {
	var out T
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	if len(strings.TrimSpace(string(contents))) == 0 {
		return out, true, nil
	}
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return out, true, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, true, nil
}

// ReadConfig reads a json5 configuration file and merges the following on top of each
// other, where a higher number takes priority.
// 1. `defaults`
// 2. <name>.<ext>
// 3. <name>.local.<ext>
//
// Zero values in a file never override a non-zero value below it. Missing files are
// skipped, os.ErrNotExist is only returned when `required` is set and neither exists.
func ReadConfig[T any](name string, defaults T, required bool) (T, error) {
	out := defaults
	found := false

	for _, path := range []string{name, LocalPath(name)} {
		layer, ok, err := readFile[T](path)
		if err != nil {
			return defaults, err
		}
		if !ok {
			continue
		}
		err = mergo.Merge(&out, layer, mergo.WithOverride)
		if err != nil {
			return defaults, fmt.Errorf("merge %s: %w", path, err)
		}
		if path != name {
			slog.Info("merging config with local overrides", "local", path)
		}
		found = true
	}

	if !found && required {
		return defaults, os.ErrNotExist
	}
	return out, nil
}
