package repository

import (
	"net/url"
	"strconv"
)

// CategoryAll is the UI's "no category filter" value; it is never sent on
// the wire.
const CategoryAll = "all"

// EventFilters narrows the event listing. Zero values are omitted from the
// query string. Use the With helpers when deriving new filters: changing
// any filter resets pagination back to the first page.
type EventFilters struct {
	Search   string
	Category string
	Location string
	Date     string
	Page     int
	Limit    int
}

func (f EventFilters) WithSearch(search string) EventFilters {
	f.Search = search
	f.Page = 1

	return f
}

func (f EventFilters) WithCategory(category string) EventFilters {
	f.Category = category
	f.Page = 1

	return f
}

func (f EventFilters) WithLocation(location string) EventFilters {
	f.Location = location
	f.Page = 1

	return f
}

func (f EventFilters) WithDate(date string) EventFilters {
	f.Date = date
	f.Page = 1

	return f
}

func (f EventFilters) WithLimit(limit int) EventFilters {
	f.Limit = limit
	f.Page = 1

	return f
}

func (f EventFilters) WithPage(page int) EventFilters {
	f.Page = page

	return f
}

// Encode renders the query string. Empty filters and the "all" category
// are not sent.
func (f EventFilters) Encode() string {
	v := url.Values{}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Category != "" && f.Category != CategoryAll {
		v.Set("category", f.Category)
	}
	if f.Location != "" {
		v.Set("location", f.Location)
	}
	if f.Date != "" {
		v.Set("date", f.Date)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}

	return v.Encode()
}
