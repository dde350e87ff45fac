package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}

func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus everything a UI would
// want to show about it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	out.Feed.UserAgent = strings.TrimSpace(out.Feed.UserAgent)
	if out.Feed.UserAgent == "" {
		out.Feed.UserAgent = Default().Feed.UserAgent
	}

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}
	if out.Feed.TimeoutSeconds <= 0 {
		res.addErr("feed.timeout_seconds must be > 0")
	} else if out.Feed.TimeoutSeconds > 300 {
		res.addWarn("feed.timeout_seconds is very high (%d); a stuck feed will block the run that long.", out.Feed.TimeoutSeconds)
	}
	if out.Feed.RequestsPerSec <= 0 {
		res.addErr("feed.requests_per_second must be > 0")
	}
	if out.Feed.Burst <= 0 {
		res.addErr("feed.burst must be > 0")
	}

	return out, res
}

func SaveAtomic(path string, cfg Config) error {
	if _, vr := NormalizeAndValidate(cfg); !vr.OK() {
		return fmt.Errorf("config validation failed: %s", strings.Join(vr.Errors, "; "))
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
