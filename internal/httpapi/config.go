package httpapi

import "github.com/rs/zerolog"

const defaultMaxBodyBytes int64 = 1 << 20

// CORSOptions configures the opt-in CORS middleware.
type CORSOptions struct {
	Enabled        bool
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Options configures the HTTP layer. The zero value is usable: logging is
// discarded, the body limit is 1 MiB and CORS/swagger are off.
type Options struct {
	Logger zerolog.Logger
	// LogLevel is the default per-request log level; see ParseLevel.
	LogLevel     LogLevel
	MaxBodyBytes int64
	CORS         CORSOptions
	Swagger      bool

	// Model metadata reported by /status and /v1/completions.
	ModelPath   string
	ContextSize int
	GPULayers   int
}

func (o Options) maxBody() int64 {
	if o.MaxBodyBytes <= 0 {
		return defaultMaxBodyBytes
	}
	return o.MaxBodyBytes
}
