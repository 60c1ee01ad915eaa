package keys

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// KeyStore is a simple local-first key management system.
//
// EXPERIMENTAL: this filesystem-backed storage surface is not part of the
// stable protocol core API and may change in MINOR releases.
//
// Features:
// - ML-DSA-65 seeds only (32 bytes, hex on disk, 0600 files)
// - Deterministic per-epoch subkeys derived from the root seed
// - No external dependencies
type KeyStore struct {
	Directory string
}

type KeyEntry struct {
	Identifier string
	Epochs     []uint64
}

func GetDefaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".saorsa", "keys"), nil
}

func CreateKeyStore(directory string) (*KeyStore, error) {
	if directory == "" {
		var err error
		directory, err = GetDefaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &KeyStore{Directory: directory}, nil
}

func (ks *KeyStore) rootKeyFilePath(identifier string) string {
	return filepath.Join(ks.Directory, identifier, "root.key")
}

func (ks *KeyStore) epochKeyFilePath(identifier string, epoch uint64) string {
	return filepath.Join(ks.Directory, identifier, "epochs", strconv.FormatUint(epoch, 10)+".key")
}

func CheckKeyName(identifier string) error {
	if identifier == "" {
		return errors.New("identifier cannot be empty")
	}
	for _, char := range identifier {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in identifier", char)
	}
	return nil
}

func ParseSeedHex(seedHex string) ([]byte, error) {
	seedHex = strings.TrimSpace(seedHex)
	seedHex = strings.TrimPrefix(seedHex, "0x")
	data, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, err
	}
	if len(data) != SeedSize {
		return nil, fmt.Errorf("expected seed length of %d bytes, got %d", SeedSize, len(data))
	}
	return data, nil
}

func (ks *KeyStore) saveSeedToFile(filePath string, seed []byte, overwrite bool) error {
	if len(seed) != SeedSize {
		return fmt.Errorf("expected seed length of %d bytes", SeedSize)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(filePath, flags, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.WriteString(hex.EncodeToString(seed) + "\n"); err != nil {
		return err
	}
	return file.Close()
}

func (ks *KeyStore) loadSeedFromFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseSeedHex(strings.TrimSpace(string(data)))
}

// InitializeRootKey stores seed as the root key for identifier and returns
// the node-key string and the seed file path.
func (ks *KeyStore) InitializeRootKey(identifier string, seed []byte, overwrite bool) (nodeKey string, filePath string, err error) {
	if err := CheckKeyName(identifier); err != nil {
		return "", "", err
	}
	filePath = ks.rootKeyFilePath(identifier)
	if err := ks.saveSeedToFile(filePath, seed, overwrite); err != nil {
		return "", "", err
	}
	nodeKey, err = NodeKeyFromSeed(seed)
	if err != nil {
		return "", "", err
	}
	return nodeKey, filePath, nil
}

// DeriveEpochKey derives and stores the epoch subkey for identifier and
// returns the node-key string and the seed file path.
func (ks *KeyStore) DeriveEpochKey(from string, epoch uint64, overwrite bool) (nodeKey string, filePath string, err error) {
	if err := CheckKeyName(from); err != nil {
		return "", "", err
	}
	rootSeed, err := ks.loadSeedFromFile(ks.rootKeyFilePath(from))
	if err != nil {
		return "", "", err
	}
	epochSeed, err := DeriveEpochSeed(rootSeed, epoch)
	if err != nil {
		return "", "", err
	}
	filePath = ks.epochKeyFilePath(from, epoch)
	if err := ks.saveSeedToFile(filePath, epochSeed, overwrite); err != nil {
		return "", "", err
	}
	nodeKey, err = NodeKeyFromSeed(epochSeed)
	if err != nil {
		return "", "", err
	}
	return nodeKey, filePath, nil
}

// ExportRootKey returns the node-key string for identifier's root seed.
func (ks *KeyStore) ExportRootKey(identifier string) (string, error) {
	if err := CheckKeyName(identifier); err != nil {
		return "", err
	}
	seed, err := ks.loadSeedFromFile(ks.rootKeyFilePath(identifier))
	if err != nil {
		return "", err
	}
	return NodeKeyFromSeed(seed)
}

// ExportEpochKey returns the node-key string for identifier's stored epoch
// subkey.
func (ks *KeyStore) ExportEpochKey(identifier string, epoch uint64) (string, error) {
	if err := CheckKeyName(identifier); err != nil {
		return "", err
	}
	seed, err := ks.loadSeedFromFile(ks.epochKeyFilePath(identifier, epoch))
	if err != nil {
		return "", err
	}
	return NodeKeyFromSeed(seed)
}

// LoadSeed resolves a seed from an explicit hex string, a key file path, or
// a stored identifier, in that precedence order.
func (ks *KeyStore) LoadSeed(seedHex, signerName, keyFile string) ([]byte, error) {
	if seedHex != "" {
		return ParseSeedHex(seedHex)
	}
	if keyFile != "" {
		return ks.loadSeedFromFile(keyFile)
	}
	if signerName != "" {
		if err := CheckKeyName(signerName); err != nil {
			return nil, err
		}
		return ks.loadSeedFromFile(ks.rootKeyFilePath(signerName))
	}
	return nil, errors.New("no signer provided")
}

func (ks *KeyStore) ListKeys() ([]KeyEntry, error) {
	entries, err := os.ReadDir(ks.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var identifiers []string
	for _, entry := range entries {
		if entry.IsDir() {
			identifiers = append(identifiers, entry.Name())
		}
	}
	sort.Strings(identifiers)

	var result []KeyEntry
	for _, identifier := range identifiers {
		epochsDir := filepath.Join(ks.Directory, identifier, "epochs")
		epochEntries, eerr := os.ReadDir(epochsDir)
		var epochs []uint64
		if eerr == nil {
			for _, epochEntry := range epochEntries {
				if epochEntry.IsDir() || !strings.HasSuffix(epochEntry.Name(), ".key") {
					continue
				}
				n, perr := strconv.ParseUint(strings.TrimSuffix(epochEntry.Name(), ".key"), 10, 64)
				if perr != nil {
					continue
				}
				epochs = append(epochs, n)
			}
			sort.Slice(epochs, func(i, j int) bool { return epochs[i] < epochs[j] })
		}
		result = append(result, KeyEntry{Identifier: identifier, Epochs: epochs})
	}
	return result, nil
}
