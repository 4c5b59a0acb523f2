package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/pkg/filesystem"
	"github.com/doeshing/statusline-go/internal/pkg/logger"
	"github.com/doeshing/statusline-go/internal/ports"
)

// TokenFileName is the single-slot token cache inside the cache directory.
const TokenFileName = "jwt.txt"

// Provider supplies the bearer credential for weather requests.
type Provider struct {
	state     domain.CredentialState
	static    string
	keyID     string
	projectID string
	ttl       time.Duration
	path      string

	signer    Signer
	signerErr error

	logger ports.Logger
	now    func() time.Time
}

// NewProvider decides the credential state from cfg and, when signing is
// configured, selects the signer.
func NewProvider(cfg domain.Config, log ports.Logger) *Provider {
	if log == nil {
		log = logger.Nop()
	}
	a := cfg.Auth
	p := &Provider{
		static:    strings.TrimSpace(a.StaticToken),
		keyID:     strings.TrimSpace(a.KeyID),
		projectID: strings.TrimSpace(a.ProjectID),
		ttl:       cfg.TokenTTL(),
		path:      filepath.Join(cfg.Cache.Dir, TokenFileName),
		logger:    log,
		now:       time.Now,
	}

	keyPath := filesystem.ExpandPath(a.PrivateKeyPath)
	switch {
	case p.keyID != "" && p.projectID != "" && keyPath != "":
		p.state = domain.CredentialSigning
		p.signer, p.signerErr = selectSigner(a.Signer, keyPath)
		if p.signerErr == nil {
			log.Debug("token signer selected", map[string]interface{}{"signer": p.signer.Name()})
		}
	case p.static != "":
		p.state = domain.CredentialStatic
	default:
		p.state = domain.CredentialNone
	}
	return p
}

// State reports how credentials are obtained.
func (p *Provider) State() domain.CredentialState {
	return p.state
}

// SignerName returns the selected signer, or "" when none.
func (p *Provider) SignerName() string {
	if p.signer == nil {
		return ""
	}
	return p.signer.Name()
}

// Token returns a usable bearer token or "" when no credential is available.
// It never returns an error: signing failures are logged.
func (p *Provider) Token(ctx context.Context) string {
	switch p.state {
	case domain.CredentialStatic:
		return p.static
	case domain.CredentialSigning:
	default:
		p.logger.Debug("no credential configured", nil)
		return ""
	}

	if cached, ok := p.cached(); ok {
		return cached
	}

	if p.signer == nil {
		p.logger.Error("token signing unavailable", p.signerErr, nil)
		return ""
	}

	token, err := p.sign(ctx)
	if err != nil {
		p.logger.Error("token signing failed", err, map[string]interface{}{"signer": p.signer.Name()})
		return ""
	}
	if err := filesystem.WriteFileAtomic(p.path, []byte(token), domain.SecureFilePermissions); err != nil {
		p.logger.Warn("token cache write failed", map[string]interface{}{"error": err.Error()})
	}
	p.logger.Info("token generated", map[string]interface{}{"signer": p.signer.Name()})
	return token
}

func (p *Provider) sign(ctx context.Context) (string, error) {
	issuedAt := p.now().Add(-domain.TokenClockSkew)
	signing, err := signingString(p.keyID, p.projectID, issuedAt, p.ttl)
	if err != nil {
		return "", err
	}
	signature, err := p.signer.Sign(ctx, signing)
	if err != nil {
		return "", err
	}
	return assemble(signing, signature), nil
}

// cached returns the stored token when its remaining lifetime exceeds the
// safety margin.
func (p *Provider) cached() (string, bool) {
	info, err := os.Stat(p.path)
	if err != nil {
		return "", false
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		p.logger.Debug("token cache unreadable", map[string]interface{}{"error": err.Error()})
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}

	now := p.now()
	remaining := p.ttl - now.Sub(info.ModTime())
	if exp, ok := expiry(token); ok {
		if left := exp.Sub(now); left < remaining {
			remaining = left
		}
	}
	if remaining <= domain.TokenSafetyMargin {
		p.logger.Debug("cached token near expiry", map[string]interface{}{"remaining": remaining.Round(time.Second)})
		return "", false
	}
	return token, true
}

// Describe returns the current credential for inspection, signing if needed.
func (p *Provider) Describe(ctx context.Context) domain.Credential {
	cred := domain.Credential{State: p.state, Signer: p.SignerName()}
	cred.Token = p.Token(ctx)
	if cred.Token == "" {
		return cred
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(cred.Token, &claims); err == nil {
		if claims.IssuedAt != nil {
			cred.IssuedAt = claims.IssuedAt.Time
		}
		if claims.ExpiresAt != nil {
			cred.ExpiresAt = claims.ExpiresAt.Time
		}
	}
	return cred
}

// Invalidate removes the cached token so the next call signs a new one.
func (p *Provider) Invalidate() error {
	if err := os.Remove(p.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func expiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

var _ ports.TokenProvider = (*Provider)(nil)
