// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via small interfaces defined at the point of use.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails verification for any reason:
// bad signature, expired, malformed, or signed with the wrong method.
var ErrInvalidToken = errors.New("sec: invalid token")

// AccessClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By embedding the UserID and the account's token version directly inside
// the JWT, the request gate can reject tokens minted before a password
// change without any extra bookkeeping table.
type AccessClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID       string `json:"uid"`
	TokenVersion int    `json:"ver"`
}

// RefreshClaims represents the payload embedded inside a JWT Refresh Token.
//
// The claims only bind the user: validity beyond the signature is decided by
// comparing the presented token against the single hash stored on the user
// record (rotation invariant).
type RefreshClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"uid"`
}

// TokenService issues and verifies HS256-signed access and refresh tokens.
//
// # Dual Secrets
//
// The two token kinds are signed with independent secrets, so compromise of
// the access-token secret cannot forge refresh tokens and vice versa.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
}

// NewTokenService creates a new TokenService.
//
// Both secrets must be non-empty and must differ from each other.
func NewTokenService(accessSecret, refreshSecret []byte, issuer string) (*TokenService, error) {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 {
		return nil, errors.New("sec: token secrets must not be empty")
	}

	if string(accessSecret) == string(refreshSecret) {
		return nil, errors.New("sec: access and refresh secrets must be distinct")
	}

	return &TokenService{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		issuer:        issuer,
	}, nil
}

// IssueAccessToken creates a short-lived stateless access token for a user.
func (service *TokenService) IssueAccessToken(userID string, tokenVersion int, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:       userID,
		TokenVersion: tokenVersion,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.accessSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign access token: %w", err)
	}

	return signedToken, nil
}

// IssueRefreshToken creates a long-lived refresh token for a user.
//
// The caller owns persisting its hash as the user's single active refresh
// token; the token itself is stateless until that comparison happens.
func (service *TokenService) IssueRefreshToken(userID string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign refresh token: %w", err)
	}

	return signedToken, nil
}

// VerifyAccessToken checks the signature and validity of an access token.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := service.verify(tokenString, claims, service.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken checks the signature and validity of a refresh token.
func (service *TokenService) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := service.verify(tokenString, claims, service.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// verify parses tokenString into claims using the given secret.
func (service *TokenService) verify(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid {
		return ErrInvalidToken
	}

	return nil
}
