package dto

import (
	"net/http"
	"slotwise/shared/constant"
	"strconv"
	"strings"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams is the paging and ordering of a list request.
type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty,gte=1"`
	Limit   int    `json:"limit"    validate:"omitempty,gte=1,lte=100"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

func positiveInt(raw string) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0
	}

	return value
}

// FromRequest reads page, limit, sort_by and sort_dir from the query string.
// Non-numeric or non-positive paging values are ignored and the limit is capped
// at constant.MaxValueLimit. With withDefaults, a missing page or limit falls
// back to the first page of constant.DefaultValueLimit rows.
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	query := r.URL.Query()

	if page := positiveInt(query.Get(constant.RequestParamPage)); page > 0 {
		q.Page = page
	}

	if limit := positiveInt(query.Get(constant.RequestParamLimit)); limit > 0 {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	if sortBy := query.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	switch dir := strings.ToUpper(query.Get(constant.RequestParamSortDir)); dir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = dir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// Offset is the number of rows before the current page.
func (q QueryParams) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}
