package validator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username  string `json:"username" validate:"notblank"`
	Email     string `json:"email" validate:"required,email"`
	Password1 string `json:"password1" validate:"notblank"`
	Password2 string `json:"password2" validate:"eqfield=Password1"`
}

func TestValidStruct(t *testing.T) {
	v := New()
	err := v.Struct(&signup{
		Username:  "pybo",
		Email:     "pybo@example.com",
		Password1: "secret",
		Password2: "secret",
	})
	assert.NoError(t, err)
}

func TestNotBlank(t *testing.T) {
	v := New()
	err := v.Struct(&signup{
		Username:  "   ",
		Email:     "pybo@example.com",
		Password1: "secret",
		Password2: "secret",
	})
	require.Error(t, err)

	var ve *Errors
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.Has("username"))
	assert.Equal(t, "username must not be blank", ve.Error())
}

func TestEqField(t *testing.T) {
	v := New()
	err := v.Struct(&signup{
		Username:  "pybo",
		Email:     "pybo@example.com",
		Password1: "secret",
		Password2: "other",
	})
	require.Error(t, err)

	var ve *Errors
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.Has("password2"))
	assert.False(t, ve.Has("username"))
}

func TestMultipleErrors(t *testing.T) {
	err := Validate.StructCtx(context.Background(), &signup{Email: "nope"})
	require.Error(t, err)

	var ve *Errors
	require.True(t, errors.As(err, &ve))
	assert.True(t, ve.Has("username"))
	assert.True(t, ve.Has("email"))
	assert.True(t, ve.Has("password1"))
	assert.Contains(t, err.Error(), "; ")
}

func TestChineseMessages(t *testing.T) {
	v := New(WithLanguage("zh"))
	err := v.Struct(&signup{Email: "pybo@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username不能为空")
}

func TestNilTarget(t *testing.T) {
	assert.Error(t, New().Struct(nil))
}
