package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/hiland-surveyors/survey-api/internal/config"
	"go.uber.org/zap"
)

// CORS returns the cross-origin middleware for the back-office frontend.
// With no configured origins, development answers any origin and every
// other environment answers none.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	switch originPolicy(cfg.AllowedOrigins, environment) {
	case allowAnyOrigin:
		// go-chi/cors only echoes the origin back (needed with credentials)
		// when matching goes through AllowOriginFunc
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return origin != "" }
		logger.Info("CORS allows any origin", zap.String("environment", environment))
	case allowNoOrigin:
		// An empty AllowedOrigins means "*" to go-chi/cors
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS has no allowed origins, cross-origin requests are denied",
			zap.String("environment", environment))
	default:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS allows configured origins", zap.Strings("origins", cfg.AllowedOrigins))
	}

	return cors.Handler(options)
}

type corsPolicy int

const (
	allowListedOrigins corsPolicy = iota
	allowAnyOrigin
	allowNoOrigin
)

func originPolicy(origins []string, environment string) corsPolicy {
	for _, origin := range origins {
		if origin == "*" {
			return allowAnyOrigin
		}
	}
	if len(origins) > 0 {
		return allowListedOrigins
	}
	if environment == "development" || environment == "local" || environment == "" {
		return allowAnyOrigin
	}
	return allowNoOrigin
}
