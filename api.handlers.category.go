package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// GetAllCategories lists every category ordered by id.
func (api *APIHandler) GetAllCategories(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	categories, err := api.library.ListCategories(r.Context())
	if err != nil {
		api.logger.Error("failed to get all categories", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusInternalServerError, "failed to get all categories", EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to get all categories", zap.String("request.id", requestID))
	total := len(categories)
	resp := GenericResponse(requestID, http.StatusOK, "All categories fetched successfully.", &total, categories)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// CreateCategory inserts a new category.
func (api *APIHandler) CreateCategory(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var category Category
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	if err := DecodeRequestBody(r, &category); err != nil {
		api.logger.Error("failed to create category", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to create the category", category)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	category, err := api.library.AddCategory(r.Context(), category)
	if err != nil {
		api.logger.Error("failed to create category", zap.String("request.id", requestID), zap.Error(err))
		status, message := mapErrorStatus(err)
		errResp := NewAPIError(requestID, status, message, category)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to create category", zap.String("category.id", category.ID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusCreated, "Category created successfully.", nil, category)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// UpdateCategory replaces the category stored under the path id and
// cascades renames into the referencing books.
func (api *APIHandler) UpdateCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var category Category
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	oldID := ps.ByName("id")
	if err := DecodeRequestBody(r, &category); err != nil {
		api.logger.Error("failed to update category", zap.String("request.id", requestID), zap.Error(err))
		errResp := NewAPIError(requestID, http.StatusBadRequest, "failed to update the category", category)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}

	category, err := api.library.UpdateCategory(r.Context(), oldID, category)
	if err != nil {
		api.logger.Error("failed to update category", zap.String("category.id", oldID), zap.String("request.id", requestID), zap.Error(err))
		status, message := mapErrorStatus(err)
		errResp := NewAPIError(requestID, status, message, category)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to update category", zap.String("category.id", category.ID), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Category updated successfully.", nil, category)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// DeleteOneCategory removes a category unless books still reference it.
func (api *APIHandler) DeleteOneCategory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := ps.ByName("id")
	err := api.library.DeleteCategory(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to delete category", zap.String("category.id", id), zap.String("request.id", requestID), zap.Error(err))
		status, message := mapErrorStatus(err)
		errResp := NewAPIError(requestID, status, message, EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to delete category", zap.String("category.id", id), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Category deleted successfully.", nil, EmptyData)
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// GetCategoryReferences reports how many books reference the category.
func (api *APIHandler) GetCategoryReferences(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	id := ps.ByName("id")
	count, err := api.library.CountBooksInCategory(r.Context(), id)
	if err != nil {
		api.logger.Error("failed to count category references", zap.String("category.id", id), zap.String("request.id", requestID), zap.Error(err))
		status, message := mapErrorStatus(err)
		errResp := NewAPIError(requestID, status, message, EmptyData)
		if err = WriteErrorResponse(r.Context(), w, errResp); err != nil {
			api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
		}
		return
	}
	api.logger.Info("success to count category references", zap.String("category.id", id), zap.String("request.id", requestID))
	resp := GenericResponse(requestID, http.StatusOK, "Category references counted successfully.", nil, map[string]int{"references": count})
	if err = WriteResponse(r.Context(), w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
