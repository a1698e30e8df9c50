package device

import "github.com/hupe1980/mdadm/resource"

type options struct {
	storage Storage
	rc      *resource.Controller
	trace   bool
}

// Option configures an Array.
type Option func(*options)

// WithStorage sets the backing storage. The default is NewMemoryStorage.
func WithStorage(s Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithResourceController throttles block transfers through rc's IO limiter.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithTrace records every executed command word; see Array.Trace.
func WithTrace() Option {
	return func(o *options) {
		o.trace = true
	}
}
