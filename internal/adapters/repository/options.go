// Package repository implements table-backed CRUD over the SQLite store.
package repository

import "github.com/okian/roster/pkg/logger"

// Option applies a configuration option to a Repository.
type Option func(*options)

type options struct {
	log logger.Logger
}

// WithLogger enables debug logging of every statement.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
