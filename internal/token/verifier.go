// Package token はBearerトークン（JWT）の取り出しと検証を提供する。
//
// 検証は (token, secret, now) の純粋関数として実装し、I/Oやログ出力は行わない。
// 有効期限の検証は必須であり、無効化する手段は提供しない。
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prepe/prepe/internal/model"
)

// 検証失敗の分類。呼び出し側ではいずれも401として扱う。
var (
	// ErrMissingToken はAuthorizationヘッダーにBearerトークンがない場合のエラー。
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidSignature は署名不一致・アルゴリズム不一致・形式不正の場合のエラー。
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrExpired は現在時刻がexp以降の場合のエラー。
	ErrExpired = errors.New("token is expired")
	// ErrInvalidClaims はsub/expなど必須クレームが欠けている場合のエラー。
	ErrInvalidClaims = errors.New("invalid token claims")
)

const bearerScheme = "bearer"

// supportedAlgorithms は共有シークレットで検証できる署名アルゴリズム。
var supportedAlgorithms = map[string]jwt.SigningMethod{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// claims はトークンのペイロード。型を宣言せずにフィールドへアクセスしないよう構造体で受ける。
type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Verifier は共有シークレットでトークンを検証する。
// 状態を持たないため複数goroutineから同時に利用できる。
type Verifier struct {
	secret    []byte
	algorithm string
	audience  string
	leeway    time.Duration
}

// Option はVerifierの設定を変更する。
type Option func(*Verifier) error

// WithAlgorithm は受け付ける署名アルゴリズムを指定する。HS256/HS384/HS512のみ有効。
func WithAlgorithm(alg string) Option {
	return func(v *Verifier) error {
		if _, ok := supportedAlgorithms[alg]; !ok {
			return fmt.Errorf("unsupported signing algorithm: %q", alg)
		}
		v.algorithm = alg
		return nil
	}
}

// WithAudience はaudクレームに含まれるべき値を指定する。空文字の場合は検証しない。
func WithAudience(aud string) Option {
	return func(v *Verifier) error {
		v.audience = aud
		return nil
	}
}

// WithLeeway は時刻系クレームの許容誤差を指定する。
func WithLeeway(d time.Duration) Option {
	return func(v *Verifier) error {
		if d < 0 {
			return fmt.Errorf("leeway must not be negative: %s", d)
		}
		v.leeway = d
		return nil
	}
}

// NewVerifier はVerifierを生成する。
// シークレットが空の場合はエラーを返す（安全でないデフォルト値は持たない）。
func NewVerifier(secret []byte, opts ...Option) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}

	v := &Verifier{
		secret:    append([]byte(nil), secret...),
		algorithm: jwt.SigningMethodHS256.Alg(),
	}
	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Algorithm は受け付ける署名アルゴリズム名を返す。
func (v *Verifier) Algorithm() string {
	return v.algorithm
}

// ExtractBearer はAuthorizationヘッダーの値からトークンを取り出す。
// スキームの大文字小文字は区別しない。取り出せない場合はErrMissingTokenを返す。
func ExtractBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	scheme, tok, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", ErrMissingToken
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", ErrMissingToken
	}
	return tok, nil
}

// VerifyHeader はAuthorizationヘッダーからトークンを取り出して検証する。
func (v *Verifier) VerifyHeader(header string, now time.Time) (*model.ClaimSet, error) {
	tok, err := ExtractBearer(header)
	if err != nil {
		return nil, err
	}
	return v.Verify(tok, now)
}

// Verify はトークンの署名と有効期限を検証し、クレームを返す。
// now がexp以降であればErrExpiredを返す。
func (v *Verifier) Verify(tokenString string, now time.Time) (*model.ClaimSet, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{v.algorithm}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}
	if v.leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(v.leeway))
	}
	if v.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(v.audience))
	}

	c := &claims{}
	_, err := jwt.NewParser(parserOpts...).ParseWithClaims(tokenString, c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}

	if c.Subject == "" || c.ExpiresAt == nil {
		return nil, ErrInvalidClaims
	}

	return &model.ClaimSet{
		Subject:   c.Subject,
		Email:     c.Email,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// classify はjwtライブラリのエラーを検証失敗の分類に変換する。
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenInvalidClaims):
		return fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
}

// IsVerificationError はerrが検証失敗の分類のいずれかであるかを返す。
func IsVerificationError(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrInvalidClaims)
}
