package auth

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer names accepted in configuration.
const (
	SignerAuto    = "auto"
	SignerLibrary = "library"
	SignerOpenSSL = "openssl"
)

// ErrNoKey is returned when the private key cannot be used by any signer.
var ErrNoKey = errors.New("no usable private key")

// Signer produces a raw Ed25519 signature over a JWT signing string.
type Signer interface {
	Name() string
	Sign(ctx context.Context, signingString string) ([]byte, error)
}

// signingString builds "header.payload" for a new token. Both signers sign
// exactly this string.
func signingString(keyID, projectID string, issuedAt time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.RegisteredClaims{
		Subject:   projectID,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	})
	token.Header = map[string]interface{}{
		"alg": jwt.SigningMethodEdDSA.Alg(),
		"kid": keyID,
	}
	return token.SigningString()
}

func assemble(signing string, signature []byte) string {
	return signing + "." + base64.RawURLEncoding.EncodeToString(signature)
}

// librarySigner signs in-process with golang-jwt.
type librarySigner struct {
	key interface{}
}

func newLibrarySigner(keyPath string) (*librarySigner, error) {
	pemBytes, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoKey, err)
	}
	key, err := jwt.ParseEdPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoKey, err)
	}
	return &librarySigner{key: key}, nil
}

func (s *librarySigner) Name() string { return SignerLibrary }

func (s *librarySigner) Sign(_ context.Context, signing string) ([]byte, error) {
	return jwt.SigningMethodEdDSA.Sign(signing, s.key)
}

// opensslSigner pipes the signing string through `openssl pkeyutl -rawin`.
type opensslSigner struct {
	binary  string
	keyPath string
}

func newOpenSSLSigner(keyPath string) (*opensslSigner, error) {
	if _, err := os.Stat(keyPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoKey, err)
	}
	binary, err := exec.LookPath("openssl")
	if err != nil {
		return nil, fmt.Errorf("openssl not found: %w", err)
	}
	return &opensslSigner{binary: binary, keyPath: keyPath}, nil
}

func (s *opensslSigner) Name() string { return SignerOpenSSL }

func (s *opensslSigner) Sign(ctx context.Context, signing string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.binary, "pkeyutl", "-sign", "-inkey", s.keyPath, "-rawin")
	cmd.Stdin = strings.NewReader(signing)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("openssl sign: %w", err)
		}
		return nil, fmt.Errorf("openssl sign: %w: %s", err, msg)
	}
	if stdout.Len() == 0 {
		return nil, errors.New("openssl sign: empty signature")
	}
	return stdout.Bytes(), nil
}

// selectSigner picks the signing strategy once. In auto mode the in-process
// signer wins when the key parses; otherwise openssl is used if installed.
func selectSigner(mode, keyPath string) (Signer, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case SignerLibrary:
		lib, err := newLibrarySigner(keyPath)
		if err != nil {
			return nil, err
		}
		return lib, nil
	case SignerOpenSSL:
		ext, err := newOpenSSLSigner(keyPath)
		if err != nil {
			return nil, err
		}
		return ext, nil
	case "", SignerAuto:
		lib, libErr := newLibrarySigner(keyPath)
		if libErr == nil {
			return lib, nil
		}
		ext, extErr := newOpenSSLSigner(keyPath)
		if extErr == nil {
			return ext, nil
		}
		return nil, fmt.Errorf("library: %v; openssl: %w", libErr, extErr)
	default:
		return nil, fmt.Errorf("unknown signer %q", mode)
	}
}
