// Package forum is a typed client for the Q&A forum API, built on the
// dispatcher. Every method blocks until its outcome is known and reports
// failures as *errors.Error.
package forum

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kochabx/apiclient/core/validator"
	"github.com/kochabx/apiclient/dispatcher"
	"github.com/kochabx/apiclient/errors"
	"github.com/kochabx/apiclient/log"
	"github.com/kochabx/apiclient/session"
)

const (
	DefaultLoginPath = "/apis/users/login"
	// DefaultFetchLimit bounds the concurrent requests of QuestionsByID
	DefaultFetchLimit = 4
)

// Client calls the forum API
type Client struct {
	d          *dispatcher.Dispatcher
	session    *session.Memory
	validate   validator.Validator
	logger     *log.Logger
	loginPath  string
	fetchLimit int
}

// Option configures a Client
type Option func(*Client)

// WithLoginPath sets the credential exchange endpoint
func WithLoginPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.loginPath = path
		}
	}
}

// WithValidator replaces the input validator
func WithValidator(v validator.Validator) Option {
	return func(c *Client) {
		if v != nil {
			c.validate = v
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFetchLimit bounds concurrent fetches; n <= 0 means no bound
func WithFetchLimit(n int) Option {
	return func(c *Client) {
		c.fetchLimit = n
	}
}

// New creates a Client. s must be the same store the dispatcher reads its
// token from, so a login is visible to every later request.
func New(d *dispatcher.Dispatcher, s *session.Memory, opts ...Option) *Client {
	c := &Client{
		d:          d,
		session:    s,
		validate:   validator.Validate,
		loginPath:  DefaultLoginPath,
		fetchLimit: DefaultFetchLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.G.Component("forum")
	}
	return c
}

// Login exchanges credentials for a token and stores it in the session
func (c *Client) Login(ctx context.Context, in LoginIn) (*Token, error) {
	if err := c.check(ctx, in); err != nil {
		return nil, err
	}

	var tok Token
	desc := dispatcher.Login(c.loginPath, dispatcher.Params{
		"username": in.Email,
		"password": in.Password,
	})
	if err := c.call(ctx, desc, &tok); err != nil {
		return nil, err
	}
	if tok.AccessToken == "" {
		return nil, errors.New(errors.KindDecode, 200, "login response carries no access_token")
	}

	c.session.Set(tok.AccessToken, tok.Username)
	c.logger.Info().Str("username", tok.Username).Str("token", log.Mask(tok.AccessToken)).Msg("logged in")
	return &tok, nil
}

// Logout forgets the session
func (c *Client) Logout() {
	c.session.Clear()
}

// Register creates an account
func (c *Client) Register(ctx context.Context, in UserIn) (*User, error) {
	if err := c.check(ctx, in); err != nil {
		return nil, err
	}

	var u User
	desc := dispatcher.Post("/apis/users/register", dispatcher.Params{
		"username":  in.Username,
		"email":     in.Email,
		"password1": in.Password1,
		"password2": in.Password2,
	})
	if err := c.call(ctx, desc, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Questions lists every question
func (c *Client) Questions(ctx context.Context) ([]Question, error) {
	var qs []Question
	if err := c.call(ctx, dispatcher.Get("/apis/questions/all", nil), &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// Question fetches one question
func (c *Client) Question(ctx context.Context, id int) (*Question, error) {
	var q Question
	if err := c.call(ctx, dispatcher.Get(path("/apis/questions/detail", id), nil), &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// QuestionsByID fetches questions concurrently, results in the order of ids.
// The first failure cancels the remaining fetches.
func (c *Client) QuestionsByID(ctx context.Context, ids ...int) ([]Question, error) {
	out := make([]Question, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	if c.fetchLimit > 0 {
		g.SetLimit(c.fetchLimit)
	}
	for i, id := range ids {
		g.Go(func() error {
			q, err := c.Question(ctx, id)
			if err != nil {
				return err
			}
			out[i] = *q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateQuestion posts a question
func (c *Client) CreateQuestion(ctx context.Context, in QuestionIn) (*Question, error) {
	if err := c.check(ctx, in); err != nil {
		return nil, err
	}

	var q Question
	desc := dispatcher.Post("/apis/questions/post", dispatcher.Params{
		"subject": in.Subject,
		"content": in.Content,
	})
	if err := c.call(ctx, desc, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// Answer fetches one answer
func (c *Client) Answer(ctx context.Context, id int) (*Answer, error) {
	var a Answer
	if err := c.call(ctx, dispatcher.Get(path("/apis/answers/detail", id), nil), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAnswer answers question questionID
func (c *Client) CreateAnswer(ctx context.Context, questionID int, in AnswerIn) (*Answer, error) {
	if err := c.check(ctx, in); err != nil {
		return nil, err
	}

	var a Answer
	desc := dispatcher.Post(path("/apis/answers/post", questionID), dispatcher.Params{"content": in.Content})
	if err := c.call(ctx, desc, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateAnswer replaces the content of an answer
func (c *Client) UpdateAnswer(ctx context.Context, id int, in AnswerIn) (*Answer, error) {
	if err := c.check(ctx, in); err != nil {
		return nil, err
	}

	var a Answer
	desc := dispatcher.Put(path("/apis/answers/update", id), dispatcher.Params{"content": in.Content})
	if err := c.call(ctx, desc, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteAnswer removes an answer; the server replies 204
func (c *Client) DeleteAnswer(ctx context.Context, id int) error {
	return c.call(ctx, dispatcher.Delete(path("/apis/answers/delete", id), nil), nil)
}

// VoteAnswer records the current user's vote; the server replies 204
func (c *Client) VoteAnswer(ctx context.Context, id int) error {
	return c.call(ctx, dispatcher.Post(path("/apis/answers/vote", id), nil), nil)
}

func (c *Client) check(ctx context.Context, in any) error {
	if err := c.validate.StructCtx(ctx, in); err != nil {
		return errors.Wrap(err, errors.KindInvalid, 400, "%v", err)
	}
	return nil
}

// call runs desc and decodes a success body into v, which may be nil
func (c *Client) call(ctx context.Context, desc dispatcher.Descriptor, v any) error {
	outcome, err := c.d.Do(ctx, desc)
	if err != nil {
		return err
	}
	return result(outcome, v)
}

// result turns an outcome into the error the typed methods return
func result(outcome dispatcher.Outcome, v any) error {
	switch o := outcome.(type) {
	case dispatcher.Success:
		if v == nil {
			return nil
		}
		return o.Decode(v)
	case dispatcher.NoContent:
		return nil
	case dispatcher.SessionExpired:
		return errors.SessionExpired("session expired")
	case dispatcher.Failure:
		return o.Err
	case dispatcher.TransportError:
		return o.Err
	}
	return errors.New(errors.KindUnknown, errors.UnknownCode, "unexpected outcome %T", outcome)
}

func path(prefix string, id int) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}
