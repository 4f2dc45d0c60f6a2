package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/organizr-dev/organizr-api/internal/config"
	"github.com/organizr-dev/organizr-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUnauthenticated = errors.New("invalid or missing API key")
	ErrForbidden       = errors.New("insufficient permissions")
)

const apiKeyPrefix = "org_"

// dummyHash is a throwaway bcrypt digest compared against when a
// presented key does not resolve to a stored credential, so the failure
// path costs the same as a real mismatch.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Identity is the resolved caller of one request: who owns the presented
// credential and with which role. It carries no session state.
type Identity struct {
	UserID uuid.UUID
	Role   string
}

func (id *Identity) IsAdmin() bool { return id.Role == models.RoleAdmin }

// AuthService authenticates API keys against stored credential hashes and
// enforces the admin/user capability boundary. Every call is evaluated
// independently; nothing is cached between requests.
type AuthService struct {
	db   *gorm.DB
	cost int
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cost: cfg.BcryptCost}
}

// IssueCredential mints a new API key for the user, stores its hash, and
// returns the plaintext exactly once. There is no way to retrieve it again.
func (s *AuthService) IssueCredential(db *gorm.DB, userID uuid.UUID) (string, error) {
	if db == nil {
		db = s.db
	}

	credID := uuid.New()
	secret, err := generateSecret()
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash credential: %w", err)
	}

	cred := models.Credential{
		ID:         credID,
		UserID:     userID,
		SecretHash: string(hash),
	}
	if err := db.Create(&cred).Error; err != nil {
		return "", fmt.Errorf("failed to store credential: %w", err)
	}

	return FormatAPIKey(credID, secret), nil
}

// Authenticate resolves a presented API key to an Identity. Any failure
// (malformed key, unknown credential, hash mismatch) is reported as
// ErrUnauthenticated without distinguishing the cause, and the hash
// comparison runs either way so timing does not leak which one it was.
func (s *AuthService) Authenticate(key string) (*Identity, error) {
	credID, secret, err := ParseAPIKey(key)
	if err != nil {
		bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(secret))
		return nil, ErrUnauthenticated
	}

	var cred models.Credential
	if err := s.db.First(&cred, "id = ?", credID).Error; err != nil {
		bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(secret))
		return nil, ErrUnauthenticated
	}

	if bcrypt.CompareHashAndPassword([]byte(cred.SecretHash), []byte(secret)) != nil {
		return nil, ErrUnauthenticated
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", cred.UserID).Error; err != nil {
		return nil, ErrUnauthenticated
	}

	return &Identity{UserID: user.ID, Role: user.Role}, nil
}

// Authorize checks that the identity may act on an entity owned by
// ownerID: admins always may, users only on their own.
func Authorize(id *Identity, ownerID uuid.UUID) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if id.IsAdmin() || id.UserID == ownerID {
		return nil
	}
	return ErrForbidden
}

// ResolveActor maps the optional for_user parameter to the user whose
// entities the request operates on. Admins may name anyone (defaulting to
// themselves); regular users only themselves.
func ResolveActor(id *Identity, forUser *uuid.UUID) (uuid.UUID, error) {
	if id == nil {
		return uuid.Nil, ErrUnauthenticated
	}
	if forUser == nil {
		return id.UserID, nil
	}
	if err := Authorize(id, *forUser); err != nil {
		return uuid.Nil, err
	}
	return *forUser, nil
}

// RequireAdmin rejects non-admin identities.
func RequireAdmin(id *Identity) error {
	if id == nil {
		return ErrUnauthenticated
	}
	if !id.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// FormatAPIKey renders a credential ID and secret as the wire form
// org_<credential-id>.<secret>. The embedded ID keys the database lookup;
// only the secret half is hashed.
func FormatAPIKey(credID uuid.UUID, secret string) string {
	return apiKeyPrefix + credID.String() + "." + secret
}

// ParseAPIKey splits a presented key into credential ID and secret.
func ParseAPIKey(key string) (uuid.UUID, string, error) {
	rest, ok := strings.CutPrefix(key, apiKeyPrefix)
	if !ok {
		return uuid.Nil, "", ErrUnauthenticated
	}
	idPart, secret, ok := strings.Cut(rest, ".")
	if !ok || secret == "" {
		return uuid.Nil, "", ErrUnauthenticated
	}
	credID, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, "", ErrUnauthenticated
	}
	return credID, secret, nil
}

func generateSecret() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
