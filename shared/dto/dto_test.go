package dto_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"toolhub/shared/constant"
	"toolhub/shared/dto"
	"toolhub/shared/model"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "ana",
		ModifiedBy: "bruno",
	})

	parsedCreated, err := time.Parse(constant.DateFormat, metadata.CreatedAt)
	assert.NoError(t, err)
	assert.True(t, parsedCreated.Equal(createdAt))

	parsedModified, err := time.Parse(constant.DateFormat, metadata.ModifiedAt)
	assert.NoError(t, err)
	assert.True(t, parsedModified.Equal(modifiedAt))

	assert.Equal(t, "ana", metadata.CreatedBy)
	assert.Equal(t, "bruno", metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    "page=2&limit=20&sort_by=start_date&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "start_date", SortDir: dto.SortDirAsc},
		},
		{
			name:           "defaults when empty",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults when disabled",
			expected: dto.QueryParams{},
		},
		{
			name:           "invalid page falls back",
			query:          "page=abc&limit=-3",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "unknown sort direction ignored",
			query:    "sort_by=name&sort_dir=sideways",
			expected: dto.QueryParams{SortBy: "name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/reservations?"+tt.query, nil)

			params := &dto.QueryParams{}
			params.FromRequest(req, tt.defaultRequest)

			assert.Equal(t, tt.expected, *params)
		})
	}
}

func TestQueryParams_RestrictSort(t *testing.T) {
	allowed := []string{"start_date", "created_at"}

	params := dto.QueryParams{SortBy: "start_date; DROP TABLE reservations", SortDir: dto.SortDirAsc}
	params.RestrictSort(allowed, "start_date", dto.SortDirDesc)
	assert.Equal(t, "start_date", params.SortBy)
	assert.Equal(t, dto.SortDirDesc, params.SortDir)

	params = dto.QueryParams{SortBy: "created_at"}
	params.RestrictSort(allowed, "start_date", dto.SortDirAsc)
	assert.Equal(t, "created_at", params.SortBy)
	assert.Equal(t, dto.SortDirAsc, params.SortDir)

	params = dto.QueryParams{SortBy: "created_at", SortDir: dto.SortDirDesc}
	params.RestrictSort(allowed, "start_date", dto.SortDirAsc)
	assert.Equal(t, dto.SortDirDesc, params.SortDir)
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		filter   dto.Filter
		where    string
		expected map[string]any
	}{
		{
			name:     "eq with table",
			filter:   dto.Filter{Field: "status", Value: "active", Operator: dto.FilterOperatorEq, Table: "reservations"},
			where:    "reservations.status = :status",
			expected: map[string]any{"status": "active"},
		},
		{
			name:     "like",
			filter:   dto.Filter{Field: "name", Value: "drill", Operator: dto.FilterOperatorLike},
			where:    "LOWER(name) LIKE LOWER(:name)",
			expected: map[string]any{"name": "%drill%"},
		},
		{
			name:     "in",
			filter:   dto.Filter{Field: "status", Value: []string{"active", "cancelled"}, Operator: dto.FilterOperatorIn},
			where:    "status IN (:status_0, :status_1)",
			expected: map[string]any{"status_0": "active", "status_1": "cancelled"},
		},
		{
			name:     "in with scalar renders nothing",
			filter:   dto.Filter{Field: "status", Value: "active", Operator: dto.FilterOperatorIn},
			where:    "",
			expected: map[string]any{},
		},
		{
			name:     "range bound with arg name",
			filter:   dto.Filter{ArgName: "start_from", Field: "start_date", Value: "2025-01-01", Operator: dto.FilterOperatorGreaterEq},
			where:    "start_date >= :start_from",
			expected: map[string]any{"start_from": "2025-01-01"},
		},
		{
			name:     "less or equal",
			filter:   dto.Filter{ArgName: "start_to", Field: "start_date", Value: "2025-01-31", Operator: dto.FilterOperatorLessEq},
			where:    "start_date <= :start_to",
			expected: map[string]any{"start_to": "2025-01-31"},
		},
		{
			name:     "not eq",
			filter:   dto.Filter{Field: "id", Value: "abc", Operator: dto.FilterOperatorNotEq},
			where:    "id != :id",
			expected: map[string]any{"id": "abc"},
		},
		{
			name:     "is null",
			filter:   dto.Filter{Field: "deleted_at", Operator: dto.FilterIsNull},
			where:    "deleted_at IS NULL",
			expected: map[string]any{},
		},
		{
			name:     "unknown operator",
			filter:   dto.Filter{Field: "id", Value: "abc", Operator: "regex"},
			where:    "",
			expected: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.expected, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	search := dto.NewFilterGroup(dto.FilterGroupOperatorOr)
	search.Add(
		dto.Filter{ArgName: "search_name", Field: "name", Value: "drill", Operator: dto.FilterOperatorLike},
		dto.Filter{ArgName: "search_code", Field: "code", Value: "drill", Operator: dto.FilterOperatorLike},
	)

	group := dto.NewFilterGroup(dto.FilterGroupOperatorAnd)
	group.Add(
		dto.Filter{Field: "active", Value: true, Operator: dto.FilterOperatorEq},
		search,
		"ignored",
	)

	where, args := group.GetWhereClause()

	assert.Equal(t, "(active = :active AND (LOWER(name) LIKE LOWER(:search_name) OR LOWER(code) LIKE LOWER(:search_code)))", where)
	assert.Equal(t, map[string]any{"active": true, "search_name": "%drill%", "search_code": "%drill%"}, args)
	assert.False(t, group.IsEmpty())
}

func TestFilterGroup_Empty(t *testing.T) {
	group := dto.FilterGroup{}
	assert.True(t, group.IsEmpty())

	group.Add(dto.NewFilterGroup(dto.FilterGroupOperatorOr))
	assert.True(t, group.IsEmpty())

	where, args := group.GetWhereClause()
	assert.Empty(t, where)
	assert.Empty(t, args)
}
