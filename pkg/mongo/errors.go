package mongo

import "errors"

var (
	ErrConnect     = errors.New("failed to connect to mongo")
	ErrHealthcheck = errors.New("mongo healthcheck failed")
)
