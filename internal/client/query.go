package client

import (
	"net/url"
	"strconv"
	"strings"
)

// query builds a query string that keeps parameters in insertion order.
type query struct {
	parts []string
}

func newQuery() *query { return &query{} }

func (q *query) add(key, value string) *query {
	q.parts = append(q.parts, key+"="+url.QueryEscape(value))
	return q
}

func (q *query) setInt(key string, v int) *query { return q.add(key, strconv.Itoa(v)) }

func (q *query) setBool(key string, v bool) *query { return q.add(key, strconv.FormatBool(v)) }

func (q *query) optInt(key string, v *int) *query {
	if v == nil {
		return q
	}
	return q.setInt(key, *v)
}

func (q *query) optBool(key string, v *bool) *query {
	if v == nil {
		return q
	}
	return q.setBool(key, *v)
}

func (q *query) optString(key string, v *string) *query {
	if v == nil {
		return q
	}
	return q.add(key, *v)
}

// String returns "" or "?k=v&...".
func (q *query) String() string {
	if len(q.parts) == 0 {
		return ""
	}
	return "?" + strings.Join(q.parts, "&")
}
