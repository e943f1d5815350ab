package graph

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/shopql/app/apperr"
	"github.com/shashiranjanraj/shopql/pkg/logger"
	"github.com/shashiranjanraj/shopql/pkg/metrics"
)

const codeOK = "OK"

// resolve instruments a root field. apperr errors reach the client as they
// are; anything else, panics included, is logged and replaced by
// apperr.Internal.
func resolve(field string, fn graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (v interface{}, err error) {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				logger.WithCtx(p.Context).Error("graphql: resolver panicked",
					"field", field,
					"panic", fmt.Sprintf("%v", rec),
					"stack", string(debug.Stack()),
				)
				metrics.ObserveResolve(field, string(apperr.CodeInternal), start)
				v, err = nil, apperr.Internal(fmt.Errorf("panic: %v", rec))
			}
		}()

		v, err = fn(p)
		if err == nil {
			metrics.ObserveResolve(field, codeOK, start)
			return v, nil
		}

		ae, ok := apperr.As(err)
		if !ok {
			logger.WithCtx(p.Context).Error("graphql: resolver failed", "field", field, "error", err)
			ae = apperr.Internal(err)
		}
		metrics.ObserveResolve(field, string(ae.Code), start)
		return nil, ae
	}
}
