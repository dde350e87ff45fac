package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnsureUserConfig makes sure a config file exists in the data dir: an
// existing one wins, a shipped default is copied in if present, and failing
// both the built-in defaults are written out so the user has something to
// edit.
func EnsureUserConfig(dataDir, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	src, err := os.Open(defaultPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		b, merr := yaml.Marshal(Default())
		if merr != nil {
			return "", merr
		}
		if werr := os.WriteFile(userPath, b, 0o644); werr != nil {
			return "", werr
		}
		return userPath, nil
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}
