// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package api

import (
	"net/http"

	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/pipeline"
	"github.com/tomtom215/tablescout/internal/validation"
)

// statusFor maps a client-facing error code to its HTTP status.
func statusFor(code string) int {
	switch code {
	case ErrCodeValidation, ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeAreaUnresolved:
		return http.StatusUnprocessableEntity
	case ErrCodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writePipelineError writes the envelope for a failed recommendation.
func writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	code := pipeline.ErrorCode(err)
	if code == ErrCodeInternalError {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Recommendation failed")
	}
	NewResponseWriter(w, r).Error(statusFor(code), code, pipeline.ErrorMessage(err))
}

// writeValidationError writes a VALIDATION_ERROR envelope with field details.
func writeValidationError(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
}

// rateLimited is the httprate limit handler.
func rateLimited(w http.ResponseWriter, r *http.Request) {
	WriteError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Too many requests, slow down")
}

// validateRequest validates a decoded recommendation request.
func validateRequest(req *pipeline.Request) *validation.RequestValidationError {
	return validation.ValidateStruct(req)
}
