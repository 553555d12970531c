package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
)

// Session is what a successful authentication yields: the shop the request acts on and the
// Admin API token used to call it.
type Session struct {
	Shop        string
	AccessToken string
}

// Authenticator authenticates an inbound admin request against the store platform.
type Authenticator interface {
	Authenticate(r *http.Request) (Session, error)
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the session.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// SessionFromContext returns the session stored by the authentication middleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// New picks the session token authenticator when an app secret is configured and falls back
// to the offline token otherwise.
func New(cfg config.Shopify) Authenticator {
	if cfg.APISecret != "" {
		return NewSessionTokenAuthenticator(cfg)
	}
	return NewStaticAuthenticator(cfg)
}

var _ Authenticator = (*StaticAuthenticator)(nil)

// StaticAuthenticator trusts every request and acts on the configured shop with its offline
// access token.
type StaticAuthenticator struct {
	session Session
}

func NewStaticAuthenticator(cfg config.Shopify) *StaticAuthenticator {
	return &StaticAuthenticator{
		session: Session{
			Shop:        normalizeShop(cfg.ShopDomain),
			AccessToken: cfg.AccessToken,
		},
	}
}

func (a *StaticAuthenticator) Authenticate(_ *http.Request) (Session, error) {
	if a.session.Shop == "" || a.session.AccessToken == "" {
		return Session{}, apperr.UnauthenticatedErr.WrapParent(errors.New("store credentials not configured"))
	}
	return a.session, nil
}

var _ Authenticator = (*SessionTokenAuthenticator)(nil)

// SessionTokenAuthenticator verifies the App Bridge session token sent as a bearer token.
// Tokens are HS256 JWTs signed with the app secret whose dest claim names the shop.
type SessionTokenAuthenticator struct {
	secret      []byte
	apiKey      string
	shop        string
	accessToken string
	leeway      time.Duration
}

func NewSessionTokenAuthenticator(cfg config.Shopify) *SessionTokenAuthenticator {
	return &SessionTokenAuthenticator{
		secret:      []byte(cfg.APISecret),
		apiKey:      cfg.APIKey,
		shop:        normalizeShop(cfg.ShopDomain),
		accessToken: cfg.AccessToken,
		leeway:      5 * time.Second,
	}
}

type sessionClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

func (a *SessionTokenAuthenticator) Authenticate(r *http.Request) (Session, error) {
	raw, ok := bearerToken(r)
	if !ok {
		return Session{}, apperr.UnauthenticatedErr.WrapParent(errors.New("missing bearer token"))
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(a.leeway),
		jwt.WithExpirationRequired(),
	}
	if a.apiKey != "" {
		opts = append(opts, jwt.WithAudience(a.apiKey))
	}

	var claims sessionClaims
	if _, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...); err != nil {
		return Session{}, apperr.UnauthenticatedErr.WrapParent(fmt.Errorf("parse session token: %w", err))
	}

	shop, err := shopFromDest(claims.Dest)
	if err != nil {
		return Session{}, apperr.UnauthenticatedErr.WrapParent(err)
	}

	if shop != a.shop {
		return Session{}, apperr.UnauthenticatedErr.WrapParent(fmt.Errorf("session token issued for %s", shop))
	}

	return Session{Shop: shop, AccessToken: a.accessToken}, nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func shopFromDest(dest string) (string, error) {
	u, err := url.Parse(dest)
	if err != nil {
		return "", fmt.Errorf("parse dest claim: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("dest claim %q has no host", dest)
	}
	return normalizeShop(u.Host), nil
}

func normalizeShop(shop string) string {
	shop = strings.ToLower(strings.TrimSpace(shop))
	shop = strings.TrimPrefix(shop, "https://")
	return strings.TrimSuffix(shop, "/")
}
