// Package middleware decodes JSON request bodies into bags at HTTP
// boundaries and shapes parse issues into JSON error responses.
package middleware

import (
	"context"
	"net/http"

	"github.com/reoring/gviz"
)

// DefaultMaxBytes caps request bodies read by Body.
const DefaultMaxBytes = 4 << 20

type ctxKeyBag struct{}

// ContextWithBag attaches a decoded body to ctx.
func ContextWithBag(ctx context.Context, b *gviz.Bag) context.Context {
	return context.WithValue(ctx, ctxKeyBag{}, b)
}

// BagFromContext returns the body decoded by Body.
func BagFromContext(ctx context.Context) (*gviz.Bag, bool) {
	b, ok := ctx.Value(ctxKeyBag{}).(*gviz.Bag)
	return b, ok
}

// DefaultParseOpt is the parse policy for untrusted request bodies:
// duplicate keys are errors and size and depth are bounded.
func DefaultParseOpt() gviz.ParseOpt {
	return gviz.ParseOpt{
		Strictness: gviz.Strictness{OnDuplicateKey: gviz.Error},
		MaxBytes:   DefaultMaxBytes,
		MaxDepth:   64,
	}
}

// ErrorPayload shapes issues for JSON responses.
func ErrorPayload(issues gviz.Issues) *gviz.Bag {
	list := make([]gviz.Value, len(issues))
	for i, it := range issues {
		ib := gviz.NewBag()
		ib.SetString("path", it.Path)
		ib.SetString("code", it.Code)
		if it.Message != "" {
			ib.SetString("message", it.Message)
		}
		if it.Offset >= 0 {
			ib.SetNumber("offset", float64(it.Offset))
		}
		list[i] = gviz.Object(ib)
	}
	b := gviz.NewBag()
	b.SetList("issues", list...)
	return b
}

// WriteIssues writes issues as a JSON error response with the given status.
func WriteIssues(w http.ResponseWriter, status int, issues gviz.Issues) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(ErrorPayload(issues).ToJSON()))
}

// Body decodes the JSON request body with opt and passes it to next through
// the request context. Undecodable bodies get a 400 with the issues; bodies
// over the size limit get a 413.
func Body(opt gviz.ParseOpt, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := gviz.ParseJSONReader(r.Body, opt)
		if err != nil {
			issues, ok := gviz.AsIssues(err)
			if !ok {
				issues = gviz.Issues{{Path: "/", Code: gviz.CodeParseError, Message: err.Error(), Offset: -1}}
			}
			status := http.StatusBadRequest
			for _, it := range issues {
				if it.Code == gviz.CodeTruncated {
					status = http.StatusRequestEntityTooLarge
				}
			}
			WriteIssues(w, status, issues)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithBag(r.Context(), b)))
	})
}
