package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aussiebroadwan/payportal/pkg/idx"
)

const (
	DeviceCookieName = "pp_device"

	kindDevice = "device"
)

// CookieConfig configures the visitor cookies.
type CookieConfig struct {
	// Key signs the cookies (HS256). Derive it, never use a raw secret.
	Key    []byte
	Secure bool

	// DeviceTTL is the lifetime of the persistent device cookie.
	DeviceTTL time.Duration

	Now func() time.Time
}

type visitorClaims struct {
	Kind string `json:"knd"`
	jwt.RegisteredClaims
}

// Cookies issues and verifies the signed device cookie naming a visitor's
// durable storage namespace. Tabs are told apart by the query, not by cookies.
type Cookies struct {
	cfg CookieConfig
}

func NewCookies(cfg CookieConfig) *Cookies {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.DeviceTTL <= 0 {
		cfg.DeviceTTL = 30 * 24 * time.Hour
	}
	return &Cookies{cfg: cfg}
}

// Visitor returns the device id for r, minting and setting a fresh cookie on
// w when it is missing, invalid or past half its life.
func (c *Cookies) Visitor(w http.ResponseWriter, r *http.Request) (string, error) {
	ttl := c.cfg.DeviceTTL
	if ck, err := r.Cookie(DeviceCookieName); err == nil {
		claims, err := c.parse(ck.Value, kindDevice)
		if err == nil {
			if claims.ExpiresAt.Sub(c.cfg.Now()) > ttl/2 {
				return claims.Subject, nil
			}
			// Slide the expiry forward, keeping the id.
			return claims.Subject, c.set(w, claims.Subject)
		}
	}

	id := idx.New().String()
	return id, c.set(w, id)
}

func (c *Cookies) set(w http.ResponseWriter, id string) error {
	signed, err := c.Mint(kindDevice, id, c.cfg.DeviceTTL)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     DeviceCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(c.cfg.DeviceTTL.Seconds()),
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Mint signs a visitor cookie value.
func (c *Cookies) Mint(kind, id string, ttl time.Duration) (string, error) {
	now := c.cfg.Now()
	claims := visitorClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.cfg.Key)
	if err != nil {
		return "", fmt.Errorf("sign %s cookie: %w", kind, err)
	}
	return signed, nil
}

func (c *Cookies) parse(raw, kind string) (*visitorClaims, error) {
	claims := &visitorClaims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return c.cfg.Key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.cfg.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, errors.New("cookie kind mismatch")
	}
	if _, err := idx.Parse(claims.Subject); err != nil {
		return nil, err
	}
	return claims, nil
}
