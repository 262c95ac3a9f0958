package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/luminalearn/lumina/core"
	"github.com/luminalearn/lumina/core/identity"
)

const claimsContextKey = "identityToken"

// Claims represents the authorization claims transmitted via a JWT.
// Subject carries the authenticated identity; every mutating handler
// passes it down to the core as an explicit actor argument.
type Claims struct {
	jwt.StandardClaims
	Name      string `json:"name,omitempty"`
	IsTeacher bool   `json:"is_teacher,omitempty"`
	IsStudent bool   `json:"is_student,omitempty"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    claimsContextKey,
		Claims:        new(Claims),
	}
}

func getClaims(conf *core.Config, acct identity.Account, svc *identity.Service) (*Claims, error) {
	isTeacher, err := svc.IsTeacher(acct.ID)
	if err != nil {
		return nil, errors.Wrap(err, "checking teacher status")
	}
	isStudent, err := svc.IsStudent(acct.ID)
	if err != nil {
		return nil, errors.Wrap(err, "checking student status")
	}
	var isAdmin bool
	if admin, err := svc.Administrator(); err == nil {
		isAdmin = admin == acct.ID
	} else if err != identity.ErrNotInitialized {
		return nil, errors.Wrap(err, "checking administrator")
	}

	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    conf.AppName,
			Subject:   string(acct.ID),
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:      acct.Name,
		IsTeacher: isTeacher,
		IsStudent: isStudent,
		IsAdmin:   isAdmin,
	}
	return claims, nil
}

// generateToken generates a signed JWT token string representing the identity Claims.
func generateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString(conf.SecretKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(claimsContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// actorID resolves the authenticated identity of the current request.
func actorID(ctx echo.Context) (identity.ID, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", err
	}
	return identity.ID(claims.Subject), nil
}
