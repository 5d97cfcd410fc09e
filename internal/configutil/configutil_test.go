package configutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl  string  `json:"base_url"`
	Email    string  `json:"email"`
	Rounds   int     `json:"rounds"`
	Rate     float64 `json:"rate"`
	Verbose  bool    `json:"verbose"`
	Password string  `json:"password"`
}

var defaults = testConfig{
	BaseUrl: "https://www.pepperplate.com",
	Rounds:  200,
	Rate:    2,
}

func write(t *testing.T, path, contents string) {
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "paprikaplate.local.json5", LocalPath("paprikaplate.json5"))
	require.Equal(t, filepath.Join("conf", "app.local.json"), LocalPath(filepath.Join("conf", "app.json")))
}

func TestReadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "paprikaplate.json5")
	write(t, name, `{
		// comments and trailing commas are fine
		email: "cook@example.com",
		rounds: 50,
	}`)
	write(t, LocalPath(name), `{ password: "hunter2", verbose: true, rounds: 10 }`)

	config, err := ReadConfig(name, defaults, true)
	require.NoError(t, err)
	require.Equal(t, testConfig{
		BaseUrl:  "https://www.pepperplate.com",
		Email:    "cook@example.com",
		Rounds:   10,
		Rate:     2,
		Verbose:  true,
		Password: "hunter2",
	}, config)
}

func TestReadConfigOnlyLocal(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "paprikaplate.json5")
	write(t, LocalPath(name), `{ email: "cook@example.com" }`)

	config, err := ReadConfig(name, defaults, true)
	require.NoError(t, err)
	require.Equal(t, "cook@example.com", config.Email)
	require.Equal(t, 200, config.Rounds)
}

func TestReadConfigMissing(t *testing.T) {
	name := filepath.Join(t.TempDir(), "paprikaplate.json5")

	config, err := ReadConfig(name, defaults, false)
	require.NoError(t, err)
	require.Equal(t, defaults, config)

	_, err = ReadConfig(name, defaults, true)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadConfigInvalid(t *testing.T) {
	name := filepath.Join(t.TempDir(), "paprikaplate.json5")
	write(t, name, `{ email: `)

	config, err := ReadConfig(name, defaults, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), name)
	require.Equal(t, defaults, config)
}
