// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata and is safe for concurrent use. Error field names come from json
// tags, and two custom tags are registered:
//
//   - sessionid: 1-64 characters of [A-Za-z0-9_-]
//   - lang: a language code such as "en" or "en-US"
//
// Usage:
//
//	type recommendRequest struct {
//	    Query     string `json:"query" validate:"required,max=1000"`
//	    SessionID string `json:"session_id" validate:"omitempty,sessionid"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, verr)
//	}
package validation
