package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	schemaVersion = 1
	keySize       = 32
)

var ErrInvalidKey = errors.New("invalid master key")

// Credentials is a service-account key kept for the document service.
// Subject, when set, is the user the service account acts for.
type Credentials struct {
	ServiceAccountJSON string    `json:"service_account_json"`
	Subject            string    `json:"subject,omitempty"`
	StoredAt           time.Time `json:"stored_at"`
}

type Secrets struct {
	SchemaVersion int          `json:"schema_version"`
	Docs          *Credentials `json:"docs,omitempty"`
}

type envelope struct {
	SchemaVersion int    `json:"schema_version"`
	Nonce         string `json:"nonce"`
	Ciphertext    string `json:"ciphertext"`
}

// Store keeps Secrets AES-GCM encrypted at one path, with a random key
// created on first use at another.
type Store struct {
	mu          sync.Mutex
	secretsPath string
	keyPath     string
}

func NewStore(secretsPath, keyPath string) *Store {
	return &Store{secretsPath: secretsPath, keyPath: keyPath}
}

// GetCredentials returns nil when nothing is stored.
func (s *Store) GetCredentials() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.read()
	if err != nil || current.Docs == nil {
		return nil, err
	}
	creds := *current.Docs
	return &creds, nil
}

func (s *Store) SetCredentials(creds *Credentials) error {
	if creds == nil || creds.ServiceAccountJSON == "" {
		return errors.New("credentials are empty")
	}
	stored := *creds
	if stored.StoredAt.IsZero() {
		stored.StoredAt = time.Now().UTC()
	}
	return s.update(func(current *Secrets) { current.Docs = &stored })
}

func (s *Store) ClearCredentials() error {
	return s.update(func(current *Secrets) { current.Docs = nil })
}

func (s *Store) update(fn func(*Secrets)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.read()
	if err != nil {
		return err
	}
	fn(current)
	return s.write(current)
}

func (s *Store) read() (*Secrets, error) {
	data, err := os.ReadFile(s.secretsPath)
	if errors.Is(err, os.ErrNotExist) {
		return &Secrets{SchemaVersion: schemaVersion}, nil
	}
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.secretsPath, err)
	}
	key, err := s.masterKey()
	if err != nil {
		return nil, err
	}
	plain, err := open(key, env)
	if err != nil {
		return nil, fmt.Errorf("decrypt %s: %w", s.secretsPath, err)
	}
	var out Secrets
	if err := json.Unmarshal(plain, &out); err != nil {
		return nil, fmt.Errorf("decode secrets: %w", err)
	}
	if out.SchemaVersion == 0 {
		out.SchemaVersion = schemaVersion
	}
	return &out, nil
}

func (s *Store) write(current *Secrets) error {
	key, err := s.masterKey()
	if err != nil {
		return err
	}
	plain, err := json.Marshal(current)
	if err != nil {
		return err
	}
	env, err := seal(key, plain)
	if err != nil {
		return err
	}
	encoded, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.secretsPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.secretsPath, encoded, 0o600)
}

func (s *Store) masterKey() ([]byte, error) {
	key, err := os.ReadFile(s.keyPath)
	switch {
	case err == nil:
		if len(key) != keySize {
			return nil, fmt.Errorf("%w: %d bytes", ErrInvalidKey, len(key))
		}
		return key, nil
	case !errors.Is(err, os.ErrNotExist):
		return nil, err
	}
	key = make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(s.keyPath), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.keyPath, key, 0o600); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func seal(key, plain []byte) (envelope, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return envelope{}, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return envelope{}, err
	}
	return envelope{
		SchemaVersion: schemaVersion,
		Nonce:         base64.StdEncoding.EncodeToString(nonce),
		Ciphertext:    base64.StdEncoding.EncodeToString(gcm.Seal(nil, nonce, plain, nil)),
	}, nil
}

func open(key []byte, env envelope) ([]byte, error) {
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil {
		return nil, err
	}
	ciphertext, err := base64.StdEncoding.DecodeString(env.Ciphertext)
	if err != nil {
		return nil, err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, errors.New("nonce has the wrong size")
	}
	return gcm.Open(nil, nonce, ciphertext, nil)
}
