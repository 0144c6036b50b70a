package account

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hostelsaathi/internal/apperr"
	"hostelsaathi/internal/config"
)

// Token verification failures, distinguished for logging but all mapped
// to 401 at the boundary.
var (
	ErrTokenExpired          = apperr.Unauthorized("Token expired")
	ErrTokenMalformed        = apperr.Unauthorized("Malformed token")
	ErrTokenSignatureInvalid = apperr.Unauthorized("Invalid token signature")
	ErrTokenInvalid          = apperr.Unauthorized("Invalid token")
)

// AccessClaims travel in the short-lived access token. The claims carry
// everything the role gate needs so that authorization does not hit the
// database beyond the account lookup.
type AccessClaims struct {
	AccountID    string `json:"_id"`
	HostelNumber int    `json:"hostelNumber"`
	Identity     string `json:"identity"`
	Role         string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims carry only the account id. Everything else is looked up
// at refresh time against the stored token.
type RefreshClaims struct {
	AccountID string `json:"_id"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService issues and verifies the HS256 access/refresh pair. Access
// and refresh tokens are signed with separate secrets, so a refresh token
// presented as an access token fails signature verification.
type TokenService struct {
	cfg      *config.TokenConfig
	accounts Accounts
	now      func() time.Time
}

func NewTokenService(cfg *config.TokenConfig, accounts Accounts) *TokenService {
	return &TokenService{cfg: cfg, accounts: accounts, now: time.Now}
}

func (t *TokenService) IssueAccessToken(account *Account) (string, error) {
	now := t.now()
	claims := &AccessClaims{
		AccountID:    account.ID.Hex(),
		HostelNumber: account.HostelNumber,
		Identity:     account.Identity(),
		Role:         account.UserRole,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.AccessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.AccessSecret)
}

func (t *TokenService) IssueRefreshToken(account *Account) (string, error) {
	now := t.now()
	claims := &RefreshClaims{
		AccountID: account.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.RefreshTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.cfg.RefreshSecret)
}

// Rotate issues a fresh pair and persists the new refresh token on the
// account, overwriting any prior one. That overwrite is what invalidates
// a previously issued refresh token: only one session per account.
func (t *TokenService) Rotate(ctx context.Context, accountID primitive.ObjectID) (*TokenPair, error) {
	account, err := t.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperr.NotFound("User does not exist")
	}

	accessToken, err := t.IssueAccessToken(account)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while generating refresh and access token")
	}
	refreshToken, err := t.IssueRefreshToken(account)
	if err != nil {
		return nil, apperr.Internal("Something went wrong while generating refresh and access token")
	}

	if err := t.accounts.UpdateRefreshToken(ctx, account.ID, refreshToken); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (t *TokenService) VerifyAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := t.parse(tokenString, claims, t.cfg.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (t *TokenService) VerifyRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := t.parse(tokenString, claims, t.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (t *TokenService) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.now() }))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return ErrTokenSignatureInvalid
		default:
			return ErrTokenInvalid
		}
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
