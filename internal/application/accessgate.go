package application

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"golang.org/x/crypto/bcrypt"

	"github.com/ericfisherdev/myfoliopanel/internal/domain/model"
)

// HashPin returns the lowercase hex SHA-256 digest of pin.
func HashPin(pin string) string {
	sum := sha256.Sum256([]byte(pin))
	return hex.EncodeToString(sum[:])
}

// MaxBcryptPinBytes is the longest PIN bcrypt accepts. Longer PINs must be
// stored as a SHA-256 digest.
const MaxBcryptPinBytes = 72

// HashPinBcrypt returns a bcrypt hash of pin suitable for AdminConfig.PinHash.
// It fails for PINs longer than MaxBcryptPinBytes.
func HashPinBcrypt(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt pin: %w", err)
	}
	return string(hash), nil
}

// VerifyPin reports whether candidate hashes to storedHash. storedHash is
// either a hex SHA-256 digest or a bcrypt hash.
func VerifyPin(candidate, storedHash string) bool {
	if isBcryptHash(storedHash) {
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate)) == nil
	}
	want := strings.ToLower(strings.TrimSpace(storedHash))
	got := HashPin(candidate)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// DefaultAdminConfig is the admin config used when none is stored.
func DefaultAdminConfig() model.AdminConfig {
	return model.AdminConfig{PinHash: HashPin(model.DefaultPin)}
}

// AccessGate guards admin mutations behind a PIN. Elevation is process-wide
// and lasts until Lock or restart; it is never persisted.
type AccessGate struct {
	store  *LocalStore
	logger *slog.Logger

	elevated atomic.Bool
}

// NewAccessGate creates a locked gate reading the admin config from store.
func NewAccessGate(store *LocalStore, logger *slog.Logger) *AccessGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &AccessGate{store: store, logger: logger}
}

// AdminConfig returns the stored admin config, or the default when the entry
// is missing or corrupt.
func (g *AccessGate) AdminConfig(ctx context.Context) model.AdminConfig {
	cfg := Get(ctx, g.store, model.StoreKeyAdminConfig, DefaultAdminConfig())
	if cfg.PinHash == "" {
		return DefaultAdminConfig()
	}
	return cfg
}

// Unlock elevates the session when pin matches the stored hash. A wrong PIN
// leaves the current elevation unchanged.
func (g *AccessGate) Unlock(ctx context.Context, pin string) bool {
	if !VerifyPin(pin, g.AdminConfig(ctx).PinHash) {
		g.logger.Warn("admin unlock rejected")
		return false
	}
	g.elevated.Store(true)
	g.logger.Info("admin unlocked")
	return true
}

// Lock drops elevation.
func (g *AccessGate) Lock() {
	if g.elevated.Swap(false) {
		g.logger.Info("admin locked")
	}
}

// IsElevated reports whether admin actions are currently allowed.
func (g *AccessGate) IsElevated() bool {
	return g.elevated.Load()
}
