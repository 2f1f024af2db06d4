package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// "Service" groups this app's secrets in the OS keychain.
const KeyringService = "jobstats"

// GetStoragePassword looks the storage password up in the OS keychain.
func GetStoragePassword(keyringAccount string) (string, error) {
	if strings.TrimSpace(keyringAccount) == "" {
		return "", errors.New("keyring account name is empty")
	}
	pw, err := keyring.Get(KeyringService, keyringAccount)
	if err != nil || strings.TrimSpace(pw) == "" {
		return "", errors.New("storage password not found in keychain")
	}
	return pw, nil
}

func SetStoragePassword(keyringAccount string, password string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, keyringAccount, password)
}

func DeleteStoragePassword(keyringAccount string) error {
	if strings.TrimSpace(keyringAccount) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, keyringAccount)
}
