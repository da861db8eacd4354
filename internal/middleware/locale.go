package middleware

import (
	"context"
	"net/http"

	"github.com/dodai/navigator/internal/utils"
)

type ctxKey int

const localeKey ctxKey = 1

// Locale resolves the response language from the lang query parameter or
// Accept-Language and stores it in the request context.
func Locale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := utils.DetermineLocale(
			r.URL.Query().Get("lang"),
			r.Header.Get("Accept-Language"),
			utils.SupportedLocales,
			utils.SupportedLocales[0],
		)
		w.Header().Set("Content-Language", locale)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), localeKey, locale)))
	})
}

// LocaleFromContext retrieves the locale stored by Locale.
func LocaleFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(localeKey).(string); ok {
		return s
	}
	return utils.SupportedLocales[0]
}
