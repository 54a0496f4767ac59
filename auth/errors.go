package auth

import "errors"

var (
	ErrCredentialFileMissing = errors.New("yahoo credential file is missing")
	ErrTokenRefresh          = errors.New("error refreshing yahoo access token")
	ErrNoToken               = errors.New("no yahoo token has been stored")
)
