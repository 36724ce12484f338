package email

import "errors"

var (
	ErrFailedToSendEmail = errors.New("email: send failed")
	ErrInvalidConfig     = errors.New("email: invalid config")
	ErrInvalidParams     = errors.New("email: invalid send params")
)
