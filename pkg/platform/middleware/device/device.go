// Package device classifies the requesting client from its User-Agent so chat
// metrics can split widget traffic by device without storing the raw header.
package device

import (
	"context"
	"net/http"

	"github.com/mssola/useragent"
)

type Class string

const (
	ClassDesktop Class = "desktop"
	ClassMobile  Class = "mobile"
	ClassBot     Class = "bot"
)

type contextKey struct{}

var classKey = contextKey{}

// Classify tags the request context with the device class.
func Classify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua := useragent.New(r.UserAgent())

		class := ClassDesktop
		switch {
		case ua.Bot():
			class = ClassBot
		case ua.Mobile():
			class = ClassMobile
		}

		ctx := context.WithValue(r.Context(), classKey, class)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the device class, defaulting to desktop.
func FromContext(ctx context.Context) Class {
	if class, ok := ctx.Value(classKey).(Class); ok {
		return class
	}
	return ClassDesktop
}
