package services

import (
	"net/url"
	"strconv"
	"strings"
)

// Query is an ordered list of query parameters. Setting an empty value is a no-op, so unset parameters are omitted
// from the request entirely rather than sent blank.
type Query struct {
	keys   []string
	values []string
}

// Set adds key=value unless value is empty. An existing key is overwritten in place.
func (q *Query) Set(key, value string) *Query {
	if value == "" {
		return q
	}
	for i, k := range q.keys {
		if k == key {
			q.values[i] = value
			return q
		}
	}
	q.keys = append(q.keys, key)
	q.values = append(q.values, value)
	return q
}

// SetInt adds key=n unless n is zero or negative.
func (q *Query) SetInt(key string, n int64) *Query {
	if n <= 0 {
		return q
	}
	return q.Set(key, strconv.FormatInt(n, 10))
}

// Get returns the value for key.
func (q Query) Get(key string) (string, bool) {
	for i, k := range q.keys {
		if k == key {
			return q.values[i], true
		}
	}
	return "", false
}

// Len returns the number of parameters that will be sent.
func (q Query) Len() int { return len(q.keys) }

// Encode renders the parameters in insertion order.
func (q Query) Encode() string {
	var b strings.Builder
	for i, k := range q.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(q.values[i]))
	}
	return b.String()
}
