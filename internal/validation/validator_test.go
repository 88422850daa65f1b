// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package validation

import (
	"strings"
	"testing"
)

type testLocation struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

type testRequest struct {
	Query     string        `json:"query" validate:"required,max=20"`
	SessionID string        `json:"session_id" validate:"omitempty,sessionid"`
	Lang      string        `json:"lang" validate:"omitempty,lang"`
	Mode      string        `json:"mode" validate:"omitempty,oneof=batch stream"`
	Limit     int           `json:"limit" validate:"min=0,max=50"`
	Location  *testLocation `json:"location" validate:"omitempty"`
}

func TestGetValidator_Singleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 != v2 {
		t.Error("GetValidator() should return the same singleton instance")
	}
	if v1 == nil {
		t.Error("GetValidator() should not return nil")
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     testRequest
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{
			name:  "valid minimal",
			input: testRequest{Query: "thai food"},
		},
		{
			name:  "valid full",
			input: testRequest{Query: "thai", SessionID: "abc-123_x", Lang: "en-US", Mode: "stream", Limit: 10, Location: &testLocation{Lat: 47.6, Lon: -122.3}},
		},
		{
			name:      "missing query",
			input:     testRequest{},
			wantField: "query",
			wantTag:   "required",
			wantMsg:   "query is required",
		},
		{
			name:      "query too long",
			input:     testRequest{Query: strings.Repeat("x", 21)},
			wantField: "query",
			wantTag:   "max",
			wantMsg:   "query must be at most 20 characters",
		},
		{
			name:      "bad session id",
			input:     testRequest{Query: "x", SessionID: "has space"},
			wantField: "session_id",
			wantTag:   "sessionid",
		},
		{
			name:      "bad lang",
			input:     testRequest{Query: "x", Lang: "English"},
			wantField: "lang",
			wantTag:   "lang",
		},
		{
			name:      "bad mode",
			input:     testRequest{Query: "x", Mode: "push"},
			wantField: "mode",
			wantTag:   "oneof",
			wantMsg:   "mode must be one of: batch stream",
		},
		{
			name:      "latitude out of range",
			input:     testRequest{Query: "x", Location: &testLocation{Lat: 95}},
			wantField: "location.lat",
			wantTag:   "latitude",
		},
		{
			name:      "limit too high",
			input:     testRequest{Query: "x", Limit: 51},
			wantField: "limit",
			wantTag:   "max",
			wantMsg:   "limit must be at most 50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("got field=%q tag=%q, want %q/%q", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
			if tt.wantMsg != "" && errs[0].Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := ValidateStruct(&testRequest{})
		apiErr := err.ToAPIError()
		if apiErr.Code != "VALIDATION_ERROR" {
			t.Errorf("Code = %q", apiErr.Code)
		}
		if apiErr.Details["field"] != "query" {
			t.Errorf("Details = %v", apiErr.Details)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := ValidateStruct(&testRequest{Mode: "x", Limit: -1})
		apiErr := err.ToAPIError()
		fields, ok := apiErr.Details["fields"].([]map[string]interface{})
		if !ok || len(fields) != 3 {
			t.Fatalf("fields = %v", apiErr.Details["fields"])
		}
		if !strings.Contains(apiErr.Message, "query: query is required") {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})

	t.Run("empty", func(t *testing.T) {
		apiErr := (&RequestValidationError{}).ToAPIError()
		if apiErr.Message != "Validation failed" {
			t.Errorf("Message = %q", apiErr.Message)
		}
	})
}
