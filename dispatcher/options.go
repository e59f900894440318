package dispatcher

import (
	"time"

	nethttp "github.com/kochabx/apiclient/core/net/http"
	"github.com/kochabx/apiclient/log"
	"github.com/kochabx/apiclient/notify"
	"github.com/kochabx/apiclient/router"
	"github.com/kochabx/apiclient/session"
)

const (
	DefaultLoginView            = "/user-login"
	DefaultLoginRequiredMessage = "login required"
	DefaultTimeout              = 30 * time.Second
)

// Observer is told about every completed exchange
type Observer interface {
	Observe(op Operation, outcome Outcome, elapsed time.Duration)
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithSession sets the auth context read for the bearer token and cleared on 401
func WithSession(s session.Store) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.session = s
		}
	}
}

// WithNavigator sets where the session-expired path sends the user
func WithNavigator(n router.Navigator) Option {
	return func(d *Dispatcher) {
		if n != nil {
			d.navigator = n
		}
	}
}

// WithNotifier sets the user-visible message sink
func WithNotifier(n notify.Notifier) Option {
	return func(d *Dispatcher) {
		if n != nil {
			d.notifier = n
		}
	}
}

// WithHTTPClient replaces the transport
func WithHTTPClient(c nethttp.Doer) Option {
	return func(d *Dispatcher) {
		if c != nil {
			d.doer = c
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithObserver registers an observer, e.g. a metrics collector
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

// WithConcurrency caps in-flight asynchronous dispatches. With n <= 0
// (the default) the pool is unbounded and Dispatch never waits.
func WithConcurrency(n int) Option {
	return func(d *Dispatcher) {
		d.concurrency = n
	}
}

// WithTimeout bounds each exchange; zero disables the bound
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		d.timeout = timeout
	}
}

// WithLoginView sets the path navigated to when a session expires
func WithLoginView(path string) Option {
	return func(d *Dispatcher) {
		if path != "" {
			d.loginView = path
		}
	}
}

// WithLoginRequiredMessage sets the notification shown when a session expires
func WithLoginRequiredMessage(msg string) Option {
	return func(d *Dispatcher) {
		if msg != "" {
			d.loginMessage = msg
		}
	}
}
