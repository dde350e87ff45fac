package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups this app's secrets in the OS keychain.
const KeyringService = "carsync"

// GetFeedPassword reads the feed basic-auth password for a username. The
// password lives only in the keychain, never in YAML or the settings table.
func GetFeedPassword(username string) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", errors.New("feed username is empty")
	}
	pw, err := keyring.Get(KeyringService, account(username))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(pw) == "" {
		return "", errors.New("feed password not set")
	}
	return pw, nil
}

func SetFeedPassword(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("feed username is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account(username), password)
}

func DeleteFeedPassword(username string) error {
	if strings.TrimSpace(username) == "" {
		return errors.New("feed username is empty")
	}
	return keyring.Delete(KeyringService, account(username))
}

func account(username string) string {
	return "carsync:feed:" + username
}
