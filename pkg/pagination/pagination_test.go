// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/buivan/libris/pkg/pagination"
)

/*
TestFromRequest verifies query parsing and the fallback-to-default behavior
for out-of-range values.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults_when_absent", "", 1, 20},
		{"explicit_values", "?page=3&limit=50", 3, 50},
		{"zero_page_falls_back", "?page=0", 1, 20},
		{"negative_page_falls_back", "?page=-2", 1, 20},
		{"zero_limit_falls_back", "?limit=0", 1, 20},
		{"excessive_limit_falls_back_to_default", "?limit=5000", 1, 20},
		{"max_limit_allowed", "?limit=100", 1, 100},
		{"non_numeric_falls_back", "?page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/books"+tt.query, nil)
			params := pagination.FromRequest(request)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

/*
TestParams_Offset verifies the SQL OFFSET derivation.
*/
func TestParams_Offset(t *testing.T) {
	tests := []struct {
		name   string
		params pagination.Params
		want   int
	}{
		{"first_page", pagination.Params{Page: 1, Limit: 20}, 0},
		{"second_page", pagination.Params{Page: 2, Limit: 20}, 20},
		{"deep_page", pagination.Params{Page: 10, Limit: 50}, 450},
		{"zero_page_is_safe", pagination.Params{Page: 0, Limit: 20}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.Offset())
		})
	}
}
