package utils

import (
	"io"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/dto/requests"
	"medibook-service/internal/pkg/exceptions"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// BuildPaginationRequest reads page and limit, falling back to defaults on
// missing or non-positive values and capping limit.
func BuildPaginationRequest(r *http.Request) *requests.Pagination {
	query := r.URL.Query()

	page, err := strconv.Atoi(query.Get(constvars.QueryParamPage))
	if err != nil || page < 1 {
		page = constvars.DefaultPaginationPage
	}

	limit, err := strconv.Atoi(query.Get(constvars.QueryParamLimit))
	if err != nil || limit < 1 {
		limit = constvars.DefaultPaginationLimit
	}
	if limit > constvars.MaxPaginationLimit {
		limit = constvars.MaxPaginationLimit
	}

	return &requests.Pagination{
		Page:  page,
		Limit: limit,
	}
}

// BuildBookingFilterRequest reads the optional status and date filters. Both
// are validated here so bad input fails before any storage call.
func BuildBookingFilterRequest(r *http.Request) (*requests.BookingFilter, error) {
	query := r.URL.Query()
	filter := &requests.BookingFilter{
		Status: strings.TrimSpace(query.Get(constvars.QueryParamStatus)),
		Date:   strings.TrimSpace(query.Get(constvars.QueryParamDate)),
	}

	if filter.Status != "" && !models.IsValidBookingStatus(filter.Status) {
		return nil, exceptions.ErrInvalidBookingStatus(filter.Status)
	}
	if filter.Date != "" {
		date, err := ParseAppointmentDate(filter.Date)
		if err != nil {
			return nil, exceptions.ErrCannotParseDate(err)
		}
		filter.Date = date.Format(constvars.DateLayoutISO)
	}

	return filter, nil
}

func DecodeJSONRequest(body io.Reader, dst interface{}) error {
	err := json.NewDecoder(body).Decode(dst)
	if err != nil {
		return exceptions.ErrCannotParseJSON(err)
	}
	return nil
}
