package forum

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/apiclient/core/validator"
	"github.com/kochabx/apiclient/dispatcher"
	"github.com/kochabx/apiclient/errors"
	"github.com/kochabx/apiclient/log"
	"github.com/kochabx/apiclient/notify"
	"github.com/kochabx/apiclient/router"
	"github.com/kochabx/apiclient/session"
)

const question1 = `{"id":1,"subject":"first","content":"hello","created_at":"2025-03-01T10:00:00.123456","updated_at":"2025-03-01T10:00:00"}`

// fakeForum is a minimal in-memory forum server
type fakeForum struct {
	mu    sync.Mutex
	token string
	seen  []*http.Request
	forms []url.Values
	votes map[string]int
}

func (f *fakeForum) authorized(r *http.Request) bool {
	return f.token != "" && r.Header.Get("Authorization") == "Bearer "+f.token
}

func (f *fakeForum) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, r)

	write := func(status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}

	switch {
	case r.URL.Path == "/apis/users/login":
		_ = r.ParseForm()
		f.forms = append(f.forms, r.PostForm)
		if r.PostForm.Get("password") != "secret" {
			write(401, `{"detail":"비밀번호가 일치하지 않습니다."}`)
			return
		}
		f.token = "header.payload.sig"
		write(200, `{"access_token":"header.payload.sig","token_type":"bearer","username":"pybo"}`)

	case r.URL.Path == "/apis/users/register":
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["username"] == "taken" {
			write(409, `{"detail":"이미 존재하는 사용자 닉네임입니다."}`)
			return
		}
		write(200, `{"id":7,"username":"`+in["username"]+`","email":"`+in["email"]+`","created_at":"2025-03-01T10:00:00"}`)

	case r.URL.Path == "/apis/questions/all":
		write(200, `[`+question1+`,{"id":2,"subject":"second","content":"","created_at":null,"updated_at":null}]`)

	case strings.HasPrefix(r.URL.Path, "/apis/questions/detail/"):
		id := strings.TrimPrefix(r.URL.Path, "/apis/questions/detail/")
		if id == "404" {
			write(404, `{"detail":"해당 게시글을 찾을 수 없습니다."}`)
			return
		}
		write(200, `{"id":`+id+`,"subject":"q`+id+`","content":"c","created_at":"2025-03-01T10:00:00Z","updated_at":"2025-03-01T10:00:00Z"}`)

	case r.URL.Path == "/apis/questions/post":
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		write(200, `{"id":3,"subject":"`+in["subject"]+`","content":"`+in["content"]+`","created_at":"2025-03-01T10:00:00","updated_at":"2025-03-01T10:00:00"}`)

	case strings.HasPrefix(r.URL.Path, "/apis/answers/"):
		if !f.authorized(r) {
			write(401, `{"detail":"Not authenticated"}`)
			return
		}
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/apis/answers/"), "/")
		action, id := parts[0], parts[1]
		switch action {
		case "post", "update":
			var in map[string]string
			_ = json.NewDecoder(r.Body).Decode(&in)
			write(200, `{"id":5,"content":"`+in["content"]+`","question_id":`+id+`,"created_at":"2025-03-01T10:00:00"}`)
		case "detail":
			write(200, `{"id":`+id+`,"content":"answer","question_id":1,"created_at":"2025-03-01T10:00:00"}`)
		case "delete":
			if id == "9" {
				write(403, `{"detail":"Not authorized: 접근 권한이 없습니다."}`)
				return
			}
			w.WriteHeader(204)
		case "vote":
			if f.votes == nil {
				f.votes = map[string]int{}
			}
			f.votes[id]++
			w.WriteHeader(204)
		}

	default:
		write(404, `{"detail":"Not Found"}`)
	}
}

type harness struct {
	server   *httptest.Server
	forum    *fakeForum
	session  *session.Memory
	history  *router.History
	notifier *notify.Recorder
	client   *Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		forum:    &fakeForum{},
		session:  session.NewMemory(),
		history:  router.NewHistory(nil),
		notifier: notify.NewRecorder(),
	}
	h.server = httptest.NewServer(h.forum)
	t.Cleanup(h.server.Close)

	d, err := dispatcher.New(func() string { return h.server.URL },
		dispatcher.WithSession(h.session),
		dispatcher.WithNavigator(h.history),
		dispatcher.WithNotifier(h.notifier),
		dispatcher.WithLogger(log.Nop()),
	)
	require.NoError(t, err)
	t.Cleanup(d.Close)

	h.client = New(d, h.session, WithLogger(log.Nop()))
	return h
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	tok, err := h.client.Login(context.Background(), LoginIn{Email: "pybo@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.Equal(t, "pybo", tok.Username)

	assert.Equal(t, "header.payload.sig", h.session.Token())
	assert.Equal(t, "pybo", h.session.Username())
	assert.True(t, h.session.LoggedIn())

	require.Len(t, h.forum.forms, 1)
	assert.Equal(t, "pybo@example.com", h.forum.forms[0].Get("username"))
}

func TestLoginWrongPasswordIsFailureNotExpiry(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.Login(context.Background(), LoginIn{Email: "pybo@example.com", Password: "wrong"})
	require.Error(t, err)

	e := errors.FromError(err)
	assert.Equal(t, errors.KindClient, e.GetKind())
	assert.Equal(t, 401, e.GetCode())
	assert.Equal(t, "비밀번호가 일치하지 않습니다.", e.GetMessage())
	assert.False(t, h.session.LoggedIn())
	assert.Empty(t, h.history.Paths())
}

func TestLoginValidation(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.Login(context.Background(), LoginIn{Email: "not-an-email", Password: "  "})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInvalid))

	verrs, ok := errors.Find[*validator.Errors](err)
	require.True(t, ok)
	assert.True(t, verrs.Has("username"))
	assert.True(t, verrs.Has("password"))
	assert.Empty(t, h.forum.seen)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.session.Set("t", "pybo")
	h.client.Logout()
	assert.False(t, h.session.LoggedIn())
}

func TestRegister(t *testing.T) {
	h := newHarness(t)

	u, err := h.client.Register(context.Background(), UserIn{
		Username: "new", Email: "new@example.com", Password1: "pw", Password2: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, u.ID)
	assert.Equal(t, "new", u.Username)
	assert.Equal(t, 2025, u.CreatedAt.Year())
}

func TestRegisterConflict(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.Register(context.Background(), UserIn{
		Username: "taken", Email: "x@example.com", Password1: "pw", Password2: "pw",
	})
	e := errors.FromError(err)
	assert.Equal(t, 409, e.GetCode())
	assert.Equal(t, "이미 존재하는 사용자 닉네임입니다.", e.GetMessage())
}

func TestRegisterPasswordMismatch(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.Register(context.Background(), UserIn{
		Username: "new", Email: "new@example.com", Password1: "a", Password2: "b",
	})
	var verrs *validator.Errors
	require.True(t, errors.As(err, &verrs))
	assert.True(t, verrs.Has("password2"))
	assert.False(t, verrs.Has("password1"))
}

func TestQuestions(t *testing.T) {
	h := newHarness(t)

	qs, err := h.client.Questions(context.Background())
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "first", qs[0].Subject)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 123456000, time.UTC), qs[0].CreatedAt.Time)
	assert.True(t, qs[1].CreatedAt.IsZero())
}

func TestQuestionNotFound(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.Question(context.Background(), 404)
	e := errors.FromError(err)
	assert.Equal(t, errors.KindClient, e.GetKind())
	assert.Equal(t, 404, e.GetCode())
	assert.Empty(t, h.notifier.Messages())
}

func TestQuestionsByID(t *testing.T) {
	h := newHarness(t)

	qs, err := h.client.QuestionsByID(context.Background(), 3, 1, 2)
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{qs[0].ID, qs[1].ID, qs[2].ID})

	_, err = h.client.QuestionsByID(context.Background(), 1, 404)
	assert.Equal(t, 404, errors.FromError(err).GetCode())
}

func TestCreateQuestion(t *testing.T) {
	h := newHarness(t)

	q, err := h.client.CreateQuestion(context.Background(), QuestionIn{Subject: "s", Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, 3, q.ID)
	assert.Equal(t, "s", q.Subject)

	_, err = h.client.CreateQuestion(context.Background(), QuestionIn{Subject: " ", Content: "c"})
	assert.True(t, errors.IsKind(err, errors.KindInvalid))
}

func TestAnswersRequireLogin(t *testing.T) {
	h := newHarness(t)
	h.session.Set("stale", "pybo")

	_, err := h.client.CreateAnswer(context.Background(), 1, AnswerIn{Content: "hi"})
	assert.True(t, errors.IsKind(err, errors.KindSessionExpired))
	assert.False(t, h.session.LoggedIn())
	assert.Equal(t, []string{dispatcher.DefaultLoginView}, h.history.Paths())
	assert.Equal(t, []string{dispatcher.DefaultLoginRequiredMessage}, h.notifier.Messages())
}

func TestAnswerLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.client.Login(ctx, LoginIn{Email: "pybo@example.com", Password: "secret"})
	require.NoError(t, err)

	a, err := h.client.CreateAnswer(ctx, 1, AnswerIn{Content: "first answer"})
	require.NoError(t, err)
	assert.Equal(t, 1, a.QuestionID)
	assert.Equal(t, "first answer", a.Content)

	a, err = h.client.UpdateAnswer(ctx, 5, AnswerIn{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", a.Content)

	a, err = h.client.Answer(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, a.ID)

	require.NoError(t, h.client.VoteAnswer(ctx, 5))
	require.NoError(t, h.client.VoteAnswer(ctx, 5))
	assert.Equal(t, 2, h.forum.votes["5"])

	require.NoError(t, h.client.DeleteAnswer(ctx, 5))

	err = h.client.DeleteAnswer(ctx, 9)
	assert.Equal(t, 403, errors.FromError(err).GetCode())
	assert.Empty(t, h.history.Paths())
}

func TestTransportFailure(t *testing.T) {
	h := newHarness(t)
	h.server.Close()

	_, err := h.client.Questions(context.Background())
	assert.True(t, errors.IsKind(err, errors.KindTransport))
}

func TestResultUnexpectedBody(t *testing.T) {
	err := result(dispatcher.Success{Status: 200, Raw: []byte(`{"id":"x"}`)}, &Question{})
	assert.True(t, errors.IsKind(err, errors.KindDecode))
}

func TestTimestamp(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-01 10:00:00"`), &ts))
	assert.Equal(t, 10, ts.Hour())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))

	b, err := json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}
