package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

// ParseLevel maps a level name to a LogLevel. Unknown names mean info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "disabled", "":
		return LevelOff
	case "error", "fatal", "panic":
		return LevelError
	case "info", "warn", "warning":
		return LevelInfo
	case "debug", "trace":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// requestLogLevel applies per-request overrides on top of def.
func requestLogLevel(r *http.Request, def LogLevel) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return ParseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return ParseLevel(v)
	}
	return def
}

// requestLog carries the logger and level for one request.
type requestLog struct {
	log   zerolog.Logger
	lvl   LogLevel
	start time.Time
}

func newRequestLog(base zerolog.Logger, def LogLevel, r *http.Request) requestLog {
	ctx := base.With().Str("path", r.URL.Path)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		ctx = ctx.Str("request_id", rid)
	}
	return requestLog{log: ctx.Logger(), lvl: requestLogLevel(r, def), start: time.Now()}
}

func (rl requestLog) begin(msg string, fields map[string]any) {
	if rl.lvl < LevelInfo {
		return
	}
	rl.log.Info().Fields(fields).Msg(msg)
}

func (rl requestLog) debug(msg string, fields map[string]any) {
	if rl.lvl < LevelDebug {
		return
	}
	rl.log.Info().Fields(fields).Msg(msg)
}

// end logs the request outcome. Failures are logged from LevelError up,
// successes from LevelInfo up.
func (rl requestLog) end(msg string, status int, err error) {
	if err != nil {
		if rl.lvl < LevelError {
			return
		}
		rl.log.Error().Int("status", status).Dur("dur", time.Since(rl.start)).Err(err).Msg(msg)
		return
	}
	if rl.lvl < LevelInfo {
		return
	}
	rl.log.Info().Int("status", status).Dur("dur", time.Since(rl.start)).Msg(msg)
}
