package application

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidID          = errors.New("invalid id")
	ErrVendorNotFound     = errors.New("vendor not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrFirmNotFound       = errors.New("firm not found")
	ErrFirmNameTaken      = errors.New("firm name already taken")
	ErrNotFirmOwner       = errors.New("firm belongs to another vendor")
	ErrInvalidTag         = errors.New("invalid category or region")
	ErrImageTooLarge      = errors.New("image too large")
	ErrUnsupportedImage   = errors.New("unsupported image type")
	ErrStorageUnavailable = errors.New("image storage not configured")
)
