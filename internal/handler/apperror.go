package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Pocket not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidCategory   = &AppError{http.StatusUnprocessableEntity, "INVALID_CATEGORY", "Operation not valid for this pocket category"}
	ErrInsufficientFunds = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds in source pocket"}
	ErrAlreadyPaid       = &AppError{http.StatusConflict, "BILL_ALREADY_PAID", "Bill has already been paid this cycle"}
	ErrImmutableField    = &AppError{http.StatusUnprocessableEntity, "IMMUTABLE_FIELD", "Field cannot be changed"}
	ErrPersistenceFailed = &AppError{http.StatusServiceUnavailable, "PERSISTENCE_FAILED", "Could not write to the snapshot store"}
)
