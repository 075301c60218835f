package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSearchUsersHandler ensures query and may_borrow filters reach
// the service.
func TestSearchUsersHandler(t *testing.T) {
	var gotQuery string
	var gotMayBorrow *bool
	library := &MockLibraryProvider{
		SearchUsersFunc: func(_ context.Context, query string, mayBorrow *bool, offset, limit int) (int, []User, error) {
			gotQuery, gotMayBorrow = query, mayBorrow
			return 1, []User{{Account: "john.doe", Forename: "John", Surname: "Doe", Role: "pupil", MayBorrow: true}}, nil
		},
	}
	api := newTestAPIHandler(library, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/users?query=john&may_borrow=true", nil)
	w := httptest.NewRecorder()
	api.SearchUsers(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "john", gotQuery)
	require.NotNil(t, gotMayBorrow)
	assert.True(t, *gotMayBorrow)

	m := decodeBody(t, res.Body)
	assert.Equal(t, float64(1), m["total"])
}

// TestGetOneUserHandler covers the found and not-found paths.
func TestGetOneUserHandler(t *testing.T) {
	library := &MockLibraryProvider{
		GetUserFunc: func(_ context.Context, account string) (User, error) {
			if account != "john.doe" {
				return User{}, ErrNothingFound
			}
			return User{Account: account, Forename: "John", Surname: "Doe", Role: "pupil"}, nil
		},
	}
	api := newTestAPIHandler(library, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/john.doe", nil)
	w := httptest.NewRecorder()
	api.GetOneUser(w, req, httprouter.Params{httprouter.Param{Key: "account", Value: "john.doe"}})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	m := decodeBody(t, res.Body)
	user, ok := m["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "john.doe", user["account"])

	req = httptest.NewRequest(http.MethodGet, "/v1/users/ghost", nil)
	w = httptest.NewRecorder()
	api.GetOneUser(w, req, httprouter.Params{httprouter.Param{Key: "account", Value: "ghost"}})
	res2 := w.Result()
	res2.Body.Close()
	assert.Equal(t, http.StatusNotFound, res2.StatusCode)
}

// TestCreateUserHandler covers creation and the invalid account
// refusal.
func TestCreateUserHandler(t *testing.T) {
	library := &MockLibraryProvider{
		AddUserFunc: func(_ context.Context, user User) (User, error) {
			if user.Account == "bad account" {
				return user, ErrInvalidUser
			}
			return user, nil
		},
	}
	api := newTestAPIHandler(library, nil)

	payload, err := json.Marshal(User{Account: "john.doe", Forename: "John", Surname: "Doe", Role: "pupil", MayBorrow: true})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBuffer(payload))
	w := httptest.NewRecorder()
	api.CreateUser(w, req, httprouter.Params{})
	res := w.Result()
	res.Body.Close()
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	payload, err = json.Marshal(User{Account: "bad account", Forename: "John", Surname: "Doe", Role: "pupil"})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBuffer(payload))
	w = httptest.NewRecorder()
	api.CreateUser(w, req, httprouter.Params{})
	res = w.Result()
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

// TestUpdateUserHandler ensures the path account is forwarded as the
// rename source.
func TestUpdateUserHandler(t *testing.T) {
	var gotOldAccount string
	library := &MockLibraryProvider{
		UpdateUserFunc: func(_ context.Context, oldAccount string, user User) (User, error) {
			gotOldAccount = oldAccount
			return user, nil
		},
	}
	api := newTestAPIHandler(library, nil)

	payload, err := json.Marshal(User{Account: "john.new", Forename: "John", Surname: "Doe", Role: "pupil"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, "/v1/users/john.doe", bytes.NewBuffer(payload))
	w := httptest.NewRecorder()
	api.UpdateUser(w, req, httprouter.Params{httprouter.Param{Key: "account", Value: "john.doe"}})
	res := w.Result()
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "john.doe", gotOldAccount)
}

// TestDeleteOneUserHandler ensures a referenced account surfaces as a
// conflict.
func TestDeleteOneUserHandler(t *testing.T) {
	library := &MockLibraryProvider{
		DeleteUserFunc: func(_ context.Context, account string) error {
			if account == "john.doe" {
				return ErrReferencedUser
			}
			return nil
		},
	}
	api := newTestAPIHandler(library, nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/users/john.doe", nil)
	w := httptest.NewRecorder()
	api.DeleteOneUser(w, req, httprouter.Params{httprouter.Param{Key: "account", Value: "john.doe"}})
	res := w.Result()
	res.Body.Close()
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/v1/users/jane.roe", nil)
	w = httptest.NewRecorder()
	api.DeleteOneUser(w, req, httprouter.Params{httprouter.Param{Key: "account", Value: "jane.roe"}})
	res = w.Result()
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

// TestUpdateUserRolesHandler ensures the bulk assignment payload is
// forwarded untouched.
func TestUpdateUserRolesHandler(t *testing.T) {
	var gotRoles map[string]string
	library := &MockLibraryProvider{
		UpdateUserRolesFunc: func(_ context.Context, roles map[string]string) error {
			gotRoles = roles
			return nil
		},
	}
	api := newTestAPIHandler(library, nil)

	payload := bytes.NewBufferString(`{"john.doe":"teacher","jane.roe":"pupil"}`)
	req := httptest.NewRequest(http.MethodPut, "/v1/user-roles", payload)
	w := httptest.NewRecorder()
	api.UpdateUserRoles(w, req, httprouter.Params{})
	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, map[string]string{"john.doe": "teacher", "jane.roe": "pupil"}, gotRoles)

	m := decodeBody(t, res.Body)
	assert.Equal(t, "User roles updated successfully.", m["message"])
}
