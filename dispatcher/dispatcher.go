// Package dispatcher sends API requests and turns responses into outcomes.
//
// One call builds the request from an Operation, a path and flat params,
// attaches the bearer token of the current session, sends it and classifies
// the response. A 401 on anything but login resets the session and sends the
// user to the login view. Every other outcome reaches the caller's callbacks,
// or a user notification when no callback handles it.
package dispatcher

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	nethttp "github.com/kochabx/apiclient/core/net/http"
	"github.com/kochabx/apiclient/errors"
	"github.com/kochabx/apiclient/log"
	"github.com/kochabx/apiclient/notify"
	"github.com/kochabx/apiclient/router"
	"github.com/kochabx/apiclient/session"
)

// Handler receives the outcome of an asynchronous dispatch
type Handler func(Outcome)

// Callbacks are the two continuations of a dispatch. Both may be nil.
// OnSuccess gets nil for a 204. Without OnFailure, failures are shown through
// the notifier using the detail field of the error body.
type Callbacks struct {
	OnSuccess func(payload any)
	OnFailure func(payload any)
}

// Dispatcher issues requests against one API
type Dispatcher struct {
	baseURL      func() string
	doer         nethttp.Doer
	session      session.Store
	navigator    router.Navigator
	notifier     notify.Notifier
	observer     Observer
	logger       *log.Logger
	loginView    string
	loginMessage string
	timeout      time.Duration
	concurrency  int

	pool *ants.Pool
	wg   sync.WaitGroup
	// continuations run one at a time, whichever dispatch they belong to
	cbMu sync.Mutex
}

// New creates a Dispatcher. baseURL is called on every request so a config
// reload takes effect for the next request.
func New(baseURL func() string, opts ...Option) (*Dispatcher, error) {
	if baseURL == nil {
		return nil, errors.Invalid("base url source is required")
	}

	d := &Dispatcher{
		baseURL:      baseURL,
		session:      session.Static(""),
		navigator:    router.Discard,
		loginView:    DefaultLoginView,
		loginMessage: DefaultLoginRequiredMessage,
		timeout:      DefaultTimeout,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = log.G.Component("dispatcher")
	}
	if d.notifier == nil {
		d.notifier = notify.NewLog(d.logger)
	}
	if d.doer == nil {
		d.doer = nethttp.New()
	}

	pool, err := ants.NewPool(d.concurrency,
		ants.WithLogger(poolLogger{d.logger}),
		ants.WithPanicHandler(func(p any) {
			d.logger.Error().Str("panic", fmt.Sprint(p)).Msg("dispatch task panicked")
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindUnknown, 500, "create dispatch pool")
	}
	d.pool = pool

	return d, nil
}

// Do sends the request described by desc and waits for its outcome.
// The error is non-nil only when nothing could be sent: an invalid descriptor
// or base URL. A SessionExpired outcome has already cleared the session,
// notified the user and navigated to the login view.
func (d *Dispatcher) Do(ctx context.Context, desc Descriptor) (Outcome, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	enc, err := desc.encode()
	if err != nil {
		return nil, err
	}

	url, err := nethttp.JoinURL(d.baseURL(), desc.Path, enc.query)
	if err != nil {
		return nil, errors.Wrap(err, errors.KindInvalid, 400, "build url")
	}

	requestID := uuid.NewString()
	req := nethttp.NewRequest(desc.Operation.Method(), url, nil, enc.body)
	req.Header[nethttp.HeaderAccept] = nethttp.ContentTypeJSON
	req.Header[nethttp.HeaderRequestID] = requestID
	if enc.contentType != "" {
		req.Header[nethttp.HeaderContentType] = enc.contentType
	}
	token := d.session.Token()
	if token != "" {
		req.Header[nethttp.HeaderAuthorization] = "Bearer " + token
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	var outcome Outcome
	status := 0
	resp, err := d.doer.Do(ctx, req)
	if err != nil {
		outcome = TransportError{Err: errors.Transport(err)}
	} else {
		status = resp.StatusCode
		outcome = interpret(desc.Operation, resp)
	}
	elapsed := time.Since(start)

	d.logger.Debug().
		Str("request_id", requestID).
		Str("operation", desc.Operation.String()).
		Str("method", req.Method).
		Str("url", url).
		Bool("auth", token != "").
		Int("status", status).
		Dur("elapsed", elapsed).
		Str("outcome", outcome.Name()).
		Msg("dispatched")

	switch o := outcome.(type) {
	case SessionExpired:
		d.expire(requestID)
	case TransportError:
		d.logger.Warn().Str("request_id", requestID).Str("url", url).Err(o.Err).Msg("transport error")
	}

	if d.observer != nil {
		d.observer.Observe(desc.Operation, outcome, elapsed)
	}

	return outcome, nil
}

// expire runs the session-expired path
func (d *Dispatcher) expire(requestID string) {
	d.logger.Info().Str("request_id", requestID).Str("login_view", d.loginView).Msg("session expired")
	d.session.Clear()
	d.notifier.Notify(d.loginMessage)
	d.navigator.NavigateTo(d.loginView)
}

// Route delivers an outcome to the callbacks, falling back to the notifier
// for failures without OnFailure and for every transport error. It runs on
// the caller's goroutine and takes no lock, so a Handler may call it.
func (d *Dispatcher) Route(outcome Outcome, cb Callbacks) {
	switch o := outcome.(type) {
	case Success:
		if cb.OnSuccess != nil {
			cb.OnSuccess(o.Payload)
		}
	case NoContent:
		if cb.OnSuccess != nil {
			cb.OnSuccess(nil)
		}
	case SessionExpired:
		// fully handled in Do
	case Failure:
		if cb.OnFailure != nil {
			cb.OnFailure(o.Payload)
			return
		}
		d.notifier.Notify(o.Detail)
	case TransportError:
		d.notifier.Notify(o.Err.Error())
	}
}

// Submit sends desc in the background and hands the outcome to h.
// Handlers of different dispatches never run at the same time. They run
// after the pool worker is released, so a handler may Submit again even
// when the pool is bounded.
// It returns an error without sending anything when desc is invalid or
// the dispatcher is closed.
func (d *Dispatcher) Submit(desc Descriptor, h Handler) error {
	if err := desc.Validate(); err != nil {
		return err
	}

	d.wg.Add(1)
	err := d.pool.Submit(func() {
		handed := false
		defer func() {
			if !handed {
				d.wg.Done()
			}
		}()

		outcome, err := d.Do(context.Background(), desc)
		if err != nil {
			d.notifier.Notify(errors.FromError(err).Error())
			return
		}
		if h == nil {
			return
		}
		handed = true
		go d.continueWith(h, outcome)
	})
	if err != nil {
		d.wg.Done()
		return errors.Wrap(err, errors.KindUnknown, 503, "dispatcher unavailable")
	}
	return nil
}

// continueWith runs one handler under the continuation lock
func (d *Dispatcher) continueWith(h Handler, outcome Outcome) {
	defer d.wg.Done()
	defer func() {
		if p := recover(); p != nil {
			d.logger.Error().Str("panic", fmt.Sprint(p)).Msg("dispatch continuation panicked")
		}
	}()

	d.cbMu.Lock()
	defer d.cbMu.Unlock()
	h(outcome)
}

// Dispatch is the callback form of Submit: outcomes are routed with Route.
func (d *Dispatcher) Dispatch(desc Descriptor, onSuccess, onFailure func(payload any)) error {
	cb := Callbacks{OnSuccess: onSuccess, OnFailure: onFailure}
	return d.Submit(desc, func(outcome Outcome) {
		d.Route(outcome, cb)
	})
}

// Wait blocks until every submitted dispatch has completed
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close waits for in-flight dispatches and releases the pool.
// Submit fails afterwards.
func (d *Dispatcher) Close() {
	d.wg.Wait()
	d.pool.Release()
}

// poolLogger routes ants' internal messages to the dispatcher logger
type poolLogger struct {
	logger *log.Logger
}

func (l poolLogger) Printf(format string, args ...any) {
	l.logger.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
