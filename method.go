package wex

import "net/http"

// Method is one of the closed set of HTTP verbs this framework routes on.
// It round-trips to net/http's string form by construction: the constant
// values below are themselves the wire-form method names, so there is no
// separate translation table to keep in sync.
type Method = string

// The closed set of methods routes may be registered with.
const (
	MethodGet     Method = http.MethodGet
	MethodPost    Method = http.MethodPost
	MethodPut     Method = http.MethodPut
	MethodDelete  Method = http.MethodDelete
	MethodPatch   Method = http.MethodPatch
	MethodOptions Method = http.MethodOptions
	MethodHead    Method = http.MethodHead
)
