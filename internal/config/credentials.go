package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zalando/go-keyring"
)

// TokenStore persists the encyclopedia API token.
type TokenStore interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}

// KeyringToken keeps the token in the OS keyring (Keychain, Secret Service, Credential Manager).
type KeyringToken struct {
	Service string
	User    string
}

func NewKeyringToken() KeyringToken {
	return KeyringToken{Service: KeyringService, User: KeyringTokenUser}
}

// Get returns "" without error when no token is stored.
func (k KeyringToken) Get() (string, error) {
	token, err := keyring.Get(k.Service, k.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrKeyring, err)
	}
	return token, nil
}

func (k KeyringToken) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New(ErrTokenEmpty)
	}
	if err := keyring.Set(k.Service, k.User, token); err != nil {
		return fmt.Errorf("%s: %w", ErrKeyring, err)
	}
	slog.Info(MsgTokenStored, LogKeyComponent, CompKeyring)
	return nil
}

// Delete is a no-op when no token is stored.
func (k KeyringToken) Delete() error {
	err := keyring.Delete(k.Service, k.User)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("%s: %w", ErrKeyring, err)
	}
	slog.Info(MsgTokenDeleted, LogKeyComponent, CompKeyring)
	return nil
}

// ResolveToken prefers the configured token and falls back to the store.
// Keyring failures are logged and yield no token.
func ResolveToken(s *Settings, store TokenStore) string {
	if s.OnThisDay.Token != "" {
		return s.OnThisDay.Token
	}
	if store == nil {
		return ""
	}
	token, err := store.Get()
	if err != nil {
		slog.Warn(MsgTokenKeyring, LogKeyComponent, CompKeyring, LogKeyError, err)
		return ""
	}
	if token == "" {
		slog.Debug(MsgTokenKeyring, LogKeyComponent, CompKeyring)
	}
	return token
}
