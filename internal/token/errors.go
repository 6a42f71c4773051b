package token

import "errors"

var ErrBadAmount = errors.New("token: amount is negative, fractional below the smallest unit, or out of range")
