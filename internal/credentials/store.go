package credentials

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrNotFound = errors.New("webhook credentials not found")

// Credentials is the configured secret pair for one merchant account.
// The basic-auth password is stored as a bcrypt hash, never in clear text.
type Credentials struct {
	MerchantAccount string
	Username        string
	PasswordHash    string
	HMACKey         string
	Active          bool
}

// VerifyPassword compares a clear-text password against the stored hash.
func (c *Credentials) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
}

// HashPassword is used when provisioning credentials.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

type Store interface {
	Fetch(ctx context.Context, merchantAccount string) (*Credentials, error)
}

type store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return &store{db: db}
}

func (s *store) Fetch(ctx context.Context, merchantAccount string) (*Credentials, error) {
	const q = `
		SELECT merchant_account, username, password_hash, hmac_key, active
		FROM webhook_credentials
		WHERE merchant_account = $1
	`

	var c Credentials
	err := s.db.QueryRowContext(ctx, q, merchantAccount).
		Scan(&c.MerchantAccount, &c.Username, &c.PasswordHash, &c.HMACKey, &c.Active)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}
