package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// SearchUsers serves the tiered member search: account prefix matches
// rank before account substrings, which rank before name or role
// substrings. GET /v1/users?query=&may_borrow=&offset=&limit=
func (api *APIHandler) SearchUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	offset, limit := ParsePagination(r)
	mayBorrow := ParseMayBorrow(r)

	total, users, err := api.library.SearchUsers(r.Context(), r.URL.Query().Get("query"), mayBorrow, offset, limit)
	if err != nil {
		api.logger.Error("failed to search users", zap.String("request.id", requestID), zap.Error(err))
		status, message := mapErrorStatus(err)
		errResp := NewAPIError(requestID, status, message, EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to search users", zap.String("request.id", requestID), zap.Int("users.total", total))
	resp := GenericResponse(requestID, http.StatusOK, "Users fetched successfully.", &total, users)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetOneUser serves a single member by account.
func (api *APIHandler) GetOneUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	account := ps.ByName("account")
	user, err := api.library.GetUser(r.Context(), account)
	if err != nil {
		api.logger.Error("failed to get user", zap.String("user.account", account), zap.String("request.id", requestID), zap.Error(err))
		status, message := mapErrorStatus(err)
		errResp := NewAPIError(requestID, status, message, user)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to get user", zap.String("user.account", account), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "User fetched successfully.", nil, user)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// CreateUser registers a new member.
func (api *APIHandler) CreateUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var user User
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	if err := DecodeRequestBody(r, &user); err != nil {
		api.logger.Error("failed to create user", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to create the user", user)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	user, err := api.library.AddUser(r.Context(), user)
	if err != nil {
		api.logger.Error("failed to create user", zap.String("request.id", requestID), zap.Error(err))
		status, message := mapErrorStatus(err)
		errResp := NewAPIError(requestID, status, message, user)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to create user", zap.String("user.account", user.Account), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusCreated, "User created successfully.", nil, user)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// UpdateUser replaces the member stored under the path account and
// cascades renames into borrower and reservation fields.
func (api *APIHandler) UpdateUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var user User
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	oldAccount := ps.ByName("account")
	if err := DecodeRequestBody(r, &user); err != nil {
		api.logger.Error("failed to update user", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to update the user", user)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	user, err := api.library.UpdateUser(r.Context(), oldAccount, user)
	if err != nil {
		api.logger.Error("failed to update user", zap.String("user.account", oldAccount), zap.String("request.id", requestID), zap.Error(err))
		status, message := mapErrorStatus(err)
		errResp := NewAPIError(requestID, status, message, user)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to update user", zap.String("user.account", user.Account), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "User updated successfully.", nil, user)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteOneUser removes a member unless a book still lists the account.
func (api *APIHandler) DeleteOneUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	account := ps.ByName("account")
	err := api.library.DeleteUser(r.Context(), account)
	if err != nil {
		api.logger.Error("failed to delete user", zap.String("user.account", account), zap.String("request.id", requestID), zap.Error(err))
		status, message := mapErrorStatus(err)
		errResp := NewAPIError(requestID, status, message, EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to delete user", zap.String("user.account", account), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "User deleted successfully.", nil, EmptyData)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// UpdateUserRoles resets every member role and assigns the posted
// account to role mapping. Unknown accounts are ignored, members
// missing from the mapping end up with an empty role.
// PUT /v1/user-roles {"account": "role", ...}
func (api *APIHandler) UpdateUserRoles(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	roles := map[string]string{}
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	if err := DecodeRequestBody(r, &roles); err != nil {
		api.logger.Error("failed to update user roles", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to update the user roles", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	if err := api.library.UpdateUserRoles(r.Context(), roles); err != nil {
		api.logger.Error("failed to update user roles", zap.String("request.id", requestID), zap.Error(err))
		status, message := mapErrorStatus(err)
		errResp := NewAPIError(requestID, status, message, EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to update user roles", zap.String("request.id", requestID), zap.Int("roles.count", len(roles)))
	resp := GenericResponse(requestID, http.StatusOK, "User roles updated successfully.", nil, EmptyData)
	if err := WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
