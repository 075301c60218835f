package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// LendingRequest carries the user side of a lend or reserve call.
type LendingRequest struct {
	Account  string `json:"account"`
	Deadline string `json:"deadline,omitempty"`
}

// LendBook hands a book out to a user until the given deadline.
// POST /v1/books/:id/lend {"account": "...", "deadline": "YYYY-MM-DD"}
func (api *APIHandler) LendBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req LendingRequest
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := ps.ByName("id")
	if err := DecodeRequestBody(r, &req); err != nil {
		api.logger.Error("failed to lend book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to lend the book", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err := api.library.Lend(r.Context(), id, req.Account, req.Deadline)
	if err != nil {
		api.logger.Error("failed to lend book",
			zap.String("book.id", id),
			zap.String("user.account", req.Account),
			zap.String("request.id", requestID),
			zap.Error(err),
		)
		status, message := mapErrorStatus(err)
		errResp := NewAPIError(requestID, status, message, EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to lend book",
		zap.String("book.id", book.ID),
		zap.String("user.account", req.Account),
		zap.String("request.id", requestID),
	)
	resp := GenericResponse(requestID, http.StatusOK, "Book lent successfully.", nil, book)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ReturnBook takes a borrowed book back. POST /v1/books/:id/return
func (api *APIHandler) ReturnBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := ps.ByName("id")
	book, err := api.library.ReturnBook(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to return book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		status, message := mapErrorStatus(err)
		errResp := NewAPIError(requestID, status, message, EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to return book", zap.String("book.id", book.ID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Book returned successfully.", nil, book)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ReserveBook places a hold on a currently borrowed book.
// POST /v1/books/:id/reserve {"account": "..."}
func (api *APIHandler) ReserveBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req LendingRequest
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := ps.ByName("id")
	if err := DecodeRequestBody(r, &req); err != nil {
		api.logger.Error("failed to reserve book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to reserve the book", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	book, err := api.library.Reserve(r.Context(), id, req.Account)
	if err != nil {
		api.logger.Error("failed to reserve book",
			zap.String("book.id", id),
			zap.String("user.account", req.Account),
			zap.String("request.id", requestID),
			zap.Error(err),
		)
		status, message := mapErrorStatus(err)
		errResp := NewAPIError(requestID, status, message, EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to reserve book",
		zap.String("book.id", book.ID),
		zap.String("user.account", req.Account),
		zap.String("request.id", requestID),
	)
	resp := GenericResponse(requestID, http.StatusOK, "Book reserved successfully.", nil, book)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// ReleaseBook removes the reservation from a book. POST /v1/books/:id/release
func (api *APIHandler) ReleaseBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := ps.ByName("id")
	book, err := api.library.Release(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to release book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		status, message := mapErrorStatus(err)
		errResp := NewAPIError(requestID, status, message, EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to release book", zap.String("book.id", book.ID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Book reservation released successfully.", nil, book)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
