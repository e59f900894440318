package forum

import (
	"bytes"
	"encoding/json"
	"time"
)

// Question is a forum question
type Question struct {
	ID        int       `json:"id"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// QuestionIn is the body of a new question
type QuestionIn struct {
	Subject string `json:"subject" validate:"notblank"`
	Content string `json:"content" validate:"notblank"`
}

// Answer is an answer to a question
type Answer struct {
	ID         int       `json:"id"`
	Content    string    `json:"content"`
	QuestionID int       `json:"question_id"`
	CreatedAt  Timestamp `json:"created_at"`
	UpdatedAt  Timestamp `json:"updated_at"`
}

// AnswerIn is the body of a new or edited answer
type AnswerIn struct {
	Content string `json:"content" validate:"notblank"`
}

// User is a registered account
type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"created_at"`
}

// UserIn is a registration request
type UserIn struct {
	Username  string `json:"username" validate:"notblank"`
	Email     string `json:"email" validate:"required,email"`
	Password1 string `json:"password1" validate:"notblank"`
	Password2 string `json:"password2" validate:"notblank,eqfield=Password1"`
}

// LoginIn holds credentials; the server reads the email from the username field
type LoginIn struct {
	Email    string `json:"username" validate:"required,email"`
	Password string `json:"password" validate:"notblank"`
}

// Token is the login response
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

// Timestamp accepts RFC 3339 and the zone-less ISO 8601 form the server
// emits for naive datetimes.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	var err error
	for _, layout := range timestampLayouts {
		var parsed time.Time
		if parsed, err = time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return err
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}
