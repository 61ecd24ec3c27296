// Package auth stores API credentials in the operating system keychain.
//
// The OVH API needs three secrets (application key, application secret,
// consumer key); Telegram notifications need a bot token. All of them
// live under one keychain service so `auth logout` can wipe everything.
package auth

import (
	"errors"
	"fmt"

	"ecosniper/internal/util"
)

const ServiceName = "ecosniper"

// Well-known secret names.
const (
	KeyOVHApplicationKey    = "ovh-application-key"
	KeyOVHApplicationSecret = "ovh-application-secret"
	KeyOVHConsumerKey       = "ovh-consumer-key"
	KeyTelegramBotToken     = "telegram-bot-token"
)

var ErrSecretNotFound = errors.New("secret not found")

type Store interface {
	SetSecret(name string, value string) error
	GetSecret(name string) (string, error)
	DeleteSecret(name string) error
}

// DefaultStore returns the standard secret store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeSecretName normalizes a secret name for consistent key lookup.
func NormalizeSecretName(name string) string {
	return util.NormalizeKey(name)
}

// OVHCredentials is the credential triple the OVH API client needs.
type OVHCredentials struct {
	ApplicationKey    string
	ApplicationSecret string
	ConsumerKey       string
}

// LoadOVHCredentials reads the OVH credential triple from the store.
// All three secrets must be present; a missing one is reported by name.
func LoadOVHCredentials(store Store) (OVHCredentials, error) {
	var creds OVHCredentials
	for _, item := range []struct {
		name string
		dest *string
	}{
		{KeyOVHApplicationKey, &creds.ApplicationKey},
		{KeyOVHApplicationSecret, &creds.ApplicationSecret},
		{KeyOVHConsumerKey, &creds.ConsumerKey},
	} {
		value, err := store.GetSecret(item.name)
		if err != nil {
			if errors.Is(err, ErrSecretNotFound) {
				return OVHCredentials{}, fmt.Errorf("auth: %s not set, run `ecosniper auth login`: %w", item.name, err)
			}
			return OVHCredentials{}, fmt.Errorf("auth: failed to read %s: %w", item.name, err)
		}
		*item.dest = value
	}
	return creds, nil
}

// SaveOVHCredentials writes the OVH credential triple to the store.
func SaveOVHCredentials(store Store, creds OVHCredentials) error {
	for _, item := range []struct {
		name  string
		value string
	}{
		{KeyOVHApplicationKey, creds.ApplicationKey},
		{KeyOVHApplicationSecret, creds.ApplicationSecret},
		{KeyOVHConsumerKey, creds.ConsumerKey},
	} {
		if item.value == "" {
			return fmt.Errorf("auth: %s must not be empty", item.name)
		}
		if err := store.SetSecret(item.name, item.value); err != nil {
			return fmt.Errorf("auth: failed to store %s: %w", item.name, err)
		}
	}
	return nil
}

// DeleteOVHCredentials removes the OVH credential triple from the store.
// Missing secrets are skipped.
func DeleteOVHCredentials(store Store) error {
	for _, name := range []string{
		KeyOVHApplicationKey,
		KeyOVHApplicationSecret,
		KeyOVHConsumerKey,
	} {
		if err := store.DeleteSecret(name); err != nil && !errors.Is(err, ErrSecretNotFound) {
			return fmt.Errorf("auth: failed to delete %s: %w", name, err)
		}
	}
	return nil
}
