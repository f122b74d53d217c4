package utils

import (
	"encoding/json"
	"net/http"
)

type MW func(http.HandlerFunc) http.HandlerFunc

// JSON writes data as an application/json response with the given status.
func JSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}

// Middleware wraps final in h left to right, so the first middleware sees the
// request first. Routes register as Middleware(handler, Recover,
// AttachValidateAccessToken): recovery outermost, then token auth.
func Middleware(final http.HandlerFunc, h ...MW) http.HandlerFunc {
	for i := len(h) - 1; i >= 0; i-- {
		final = h[i](final)
	}
	return final
}
