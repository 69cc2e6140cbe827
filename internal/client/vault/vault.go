// Package vault manages the device's sync identity: the vault id shared by
// all paired devices, the symmetric secret transported out-of-band during
// pairing, and the per-device installation id.
package vault

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/moneylog/internal/client/prefs"
	"github.com/dmitrijs2005/moneylog/internal/common"
)

const (
	keyVaultID        = "vault_id"
	keySecretKey      = "secret_key"
	keyInstallationID = "installation_id"

	secretLength = 16
)

// Vault is the namespace + shared secret pair every paired device holds.
type Vault struct {
	ID     string
	Secret string
}

// pairingPayload is the JSON structure exchanged out-of-band (originally as
// a QR code). Key names are part of the cross-device format.
type pairingPayload struct {
	VaultID string `json:"v"`
	Secret  string `json:"k"`
}

// MarshalPairing renders the payload another device imports.
func (v Vault) MarshalPairing() (string, error) {
	b, err := json.Marshal(pairingPayload{VaultID: v.ID, Secret: v.Secret})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParsePairing parses a payload produced by MarshalPairing on another
// device. Returns common.ErrInvalidPairing for anything unusable.
func ParsePairing(s string) (*Vault, error) {
	var p pairingPayload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidPairing, err)
	}
	if p.VaultID == "" || p.Secret == "" {
		return nil, common.ErrInvalidPairing
	}
	return &Vault{ID: p.VaultID, Secret: p.Secret}, nil
}

// Service reads and writes vault state through the prefs port.
type Service struct {
	prefs prefs.Store
}

func NewService(store prefs.Store) *Service {
	return &Service{prefs: store}
}

// Current returns the configured vault, or common.ErrVaultNotLinked when
// the device has never been linked or created one.
func (s *Service) Current() (*Vault, error) {
	id, okID, err := s.prefs.Get(keyVaultID)
	if err != nil {
		return nil, err
	}
	secret, okSecret, err := s.prefs.Get(keySecretKey)
	if err != nil {
		return nil, err
	}
	if !okID || !okSecret || id == "" || secret == "" {
		return nil, common.ErrVaultNotLinked
	}
	return &Vault{ID: id, Secret: secret}, nil
}

// GetOrCreate returns the current vault, minting a fresh identity on first
// use. The device that creates the vault becomes the host other devices
// pair with.
func (s *Service) GetOrCreate() (*Vault, error) {
	v, err := s.Current()
	if err == nil {
		return v, nil
	}
	fresh, err := newVault()
	if err != nil {
		return nil, err
	}
	if err := s.save(fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Import unconditionally replaces the vault identity with one scanned from
// another device.
func (s *Service) Import(v Vault) error {
	if v.ID == "" || v.Secret == "" {
		return common.ErrInvalidPairing
	}
	return s.save(&v)
}

// Unlink severs the sync relationship by minting a fresh identity. Data
// already in the old vault becomes unreachable under the new key.
func (s *Service) Unlink() (*Vault, error) {
	fresh, err := newVault()
	if err != nil {
		return nil, err
	}
	if err := s.save(fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// InstallationID lazily creates and persists a random per-device
// identifier. Not part of conflict resolution; reserved for attribution.
func (s *Service) InstallationID() (string, error) {
	id, ok, err := s.prefs.Get(keyInstallationID)
	if err != nil {
		return "", err
	}
	if ok && id != "" {
		return id, nil
	}
	id = uuid.NewString()
	if err := s.prefs.Set(keyInstallationID, id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) save(v *Vault) error {
	if err := s.prefs.Set(keyVaultID, v.ID); err != nil {
		return fmt.Errorf("failed to save vault id: %w", err)
	}
	if err := s.prefs.Set(keySecretKey, v.Secret); err != nil {
		return fmt.Errorf("failed to save secret key: %w", err)
	}
	return nil
}

func newVault() (*Vault, error) {
	secret, err := common.MakeRandHexString(secretLength / 2)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secret key: %w", err)
	}
	return &Vault{
		ID:     uuid.NewString(),
		Secret: secret,
	}, nil
}
