package domain

import "errors"

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTemplateNotFound     = errors.New("worksheet template not found")
	ErrTemplateAmbiguous    = errors.New("worksheet template name is ambiguous")
	ErrModelNotFound        = errors.New("worksheet model not found")
	ErrFieldCheckFailed     = errors.New("field existence check failed")
	ErrUnknownFieldType     = errors.New("unknown field type")
	ErrLayoutNotFound       = errors.New("layout not found")
	ErrLayoutSyncFailed     = errors.New("layout sync failed")
	ErrSecretNotFound       = errors.New("secret not found")
)
