package secretstore

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// Store is a small encrypted-at-rest KV wrapper (Badger).
// Note: encryption is provided by Badger options (value log + key registry), not by this wrapper.
type Store struct {
	db *badger.DB
}

type OpenOptions struct {
	Path          string
	EncryptionKey []byte // 32 bytes; if nil, DB is opened without encryption (not recommended)
	ReadOnly      bool
}

// Keys under which exchange credentials are stored.
const (
	KeyAPIKey    = "vitex/api_key"
	KeyAPISecret = "vitex/api_secret"
)

// Credentials holds the exchange API credential pair.
type Credentials struct {
	Key    string
	Secret string
}

// Complete reports whether both halves of the pair are present.
func (c Credentials) Complete() bool {
	return c.Key != "" && c.Secret != ""
}

func Open(opts OpenOptions) (*Store, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("secretstore: path is required")
	}
	bopts := badger.DefaultOptions(opts.Path).
		WithLogger(nil).
		WithReadOnly(opts.ReadOnly)
	if len(opts.EncryptionKey) > 0 {
		// Badger requires index cache for encrypted workloads
		bopts = bopts.
			WithEncryptionKey(opts.EncryptionKey).
			WithIndexCacheSize(100 << 20) // 100MB
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) GetString(key string) (string, bool, error) {
	if s == nil || s.db == nil {
		return "", false, errors.New("secretstore: not opened")
	}
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return "", false, errors.New("secretstore: key is empty")
	}
	var out string
	var found bool
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			out = string(val)
			return nil
		})
	})
	if err != nil {
		return "", false, err
	}
	return out, found, nil
}

func (s *Store) SetString(key string, val string) error {
	if s == nil || s.db == nil {
		return errors.New("secretstore: not opened")
	}
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return errors.New("secretstore: key is empty")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, []byte(val))
	})
}

func (s *Store) Delete(key string) error {
	if s == nil || s.db == nil {
		return errors.New("secretstore: not opened")
	}
	k := []byte(strings.TrimSpace(key))
	if len(k) == 0 {
		return errors.New("secretstore: key is empty")
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(k)
	})
}

// LoadCredentials reads the credential pair. Missing halves come back empty;
// callers decide whether an incomplete pair is acceptable.
func (s *Store) LoadCredentials() (Credentials, error) {
	key, _, err := s.GetString(KeyAPIKey)
	if err != nil {
		return Credentials{}, fmt.Errorf("secretstore: load api key: %w", err)
	}
	secret, _, err := s.GetString(KeyAPISecret)
	if err != nil {
		return Credentials{}, fmt.Errorf("secretstore: load api secret: %w", err)
	}
	return Credentials{Key: key, Secret: secret}, nil
}

// SaveCredentials writes the credential pair. Empty halves are rejected to
// avoid silently wiping a stored value.
func (s *Store) SaveCredentials(creds Credentials) error {
	if !creds.Complete() {
		return errors.New("secretstore: both key and secret are required")
	}
	if err := s.SetString(KeyAPIKey, creds.Key); err != nil {
		return fmt.Errorf("secretstore: save api key: %w", err)
	}
	if err := s.SetString(KeyAPISecret, creds.Secret); err != nil {
		return fmt.Errorf("secretstore: save api secret: %w", err)
	}
	return nil
}

// ParseKey expects 32 bytes (base64 or hex). Returns nil if input is empty.
func ParseKey(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	// Prefer hex: 64 hex chars decode to exactly 32 bytes, and trying hex
	// first avoids misinterpreting hex strings as base64
	rawHex := strings.TrimPrefix(raw, "0x")
	if b, err := hex.DecodeString(rawHex); err == nil {
		if len(b) == 32 {
			return b, nil
		}
		return nil, fmt.Errorf("decoded key length must be 32, got %d", len(b))
	}
	if b, err := base64.StdEncoding.DecodeString(raw); err == nil {
		if len(b) != 32 {
			return nil, fmt.Errorf("decoded key length must be 32, got %d", len(b))
		}
		return b, nil
	}
	return nil, errors.New("key must be base64(32 bytes) or hex(32 bytes)")
}
