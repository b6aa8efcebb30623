package mail

import "errors"

var (
	ErrHostRequired      = errors.New("mail: host is required")
	ErrInvalidPort       = errors.New("mail: invalid port")
	ErrSenderRequired    = errors.New("mail: sender address is required")
	ErrRecipientRequired = errors.New("mail: at least one recipient is required")
)
