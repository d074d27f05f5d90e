package auth

import "errors"

var (
	// ErrInvalidOTP is returned when a code is wrong, used or expired.
	ErrInvalidOTP = errors.New("Invalid or expired OTP")
	// ErrInvalidToken is returned for tokens that fail signature, expiry or type checks.
	ErrInvalidToken = errors.New("Invalid refresh token")
	// ErrTokenRevoked is returned for refresh tokens that are no longer active.
	ErrTokenRevoked = errors.New("Refresh token revoked")
	// ErrWrongTokenType is returned when a refresh token is used as an access token or the reverse.
	ErrWrongTokenType = errors.New("Invalid token type")
)
