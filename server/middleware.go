package server

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"catalog-browser/utils"
)

// contentSecurityPolicy lets product images load from any host; everything else is same-origin.
const contentSecurityPolicy = "default-src 'self'; img-src * data:; style-src 'self'; form-action 'self'"

// MiddlewareStack returns the middleware chain in the order it is installed.
func MiddlewareStack(opts Options, logger *utils.Logger) []func(http.Handler) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
	})

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	middlewares := []func(http.Handler) http.Handler{
		chimw.RealIP,
		chimw.RequestID,
		requestLogger(logger),
		chimw.Recoverer,
		chimw.Timeout(timeout),
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := secureMiddleware.Process(w, r); err != nil {
					logger.Warn("[http] Secure headers blocked request: %v", err)
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				next.ServeHTTP(w, r)
			})
		},
		chimw.Compress(5),
	}
	if opts.RateLimit > 0 {
		middlewares = append(middlewares,
			httprate.Limit(opts.RateLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	}
	return middlewares
}

// requestLogger writes one access-log line per request through the application logger.
func requestLogger(logger *utils.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("[http] %s %s %d %dB %v reqid=%s",
					r.Method, r.URL.RequestURI(), ww.Status(), ww.BytesWritten(),
					time.Since(start).Round(time.Microsecond), chimw.GetReqID(r.Context()))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
