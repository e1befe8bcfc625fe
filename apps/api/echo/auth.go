package echoapi

import (
	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aalimaslam/ace-brainiac-admin/services/auth"
)

const contextTokenKey = "adminToken"

func jwtConfig(secretKey string) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(secretKey),
		SigningMethod: authsvc.SigningMethod.Alg(),
		ContextKey:    contextTokenKey,
		Claims:        new(authsvc.Claims),
	}
}

func getContextClaims(ctx echo.Context) (authsvc.Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*authsvc.Claims); ok {
			return *claims, nil
		}
	}
	return authsvc.Claims{}, errUnauthorized
}
