package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signUp struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Order    string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

func TestStruct_Valid(t *testing.T) {
	require.NoError(t, Struct(&signUp{Username: "a", Email: "a@x.com"}))
}

func TestStruct_UsesJSONNames(t *testing.T) {
	err := Struct(&signUp{Email: "nope", Order: "up"})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "username is required")
	assert.Contains(t, msg, "email must be a valid email address")
	assert.Contains(t, msg, "sortOrder must be one of [asc desc]")
}

func TestGet_Singleton(t *testing.T) {
	assert.Same(t, Get(), Get())
}

func TestBind(t *testing.T) {
	var dst signUp
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"a","email":"a@x.com"}`))
	require.NoError(t, Bind(r, &dst))
	assert.Equal(t, "a", dst.Username)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	assert.ErrorIs(t, Bind(r, &signUp{}), ErrBadBody)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"a"}`))
	err := Bind(r, &signUp{})
	require.Error(t, err)
	assert.Equal(t, "email is required", err.Error())
}
