package responses

import "errors"

var ErrImmutable = errors.New("generated responses cannot be modified")
