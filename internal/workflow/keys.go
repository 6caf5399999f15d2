package workflow

import (
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/apachepressure/chaser/internal/analysis"
	"github.com/apachepressure/chaser/internal/briefs"
	"github.com/apachepressure/chaser/internal/netsuite"
)

// State keys shared between nodes.
const (
	KeyFetch        = "fetch"
	KeyAnalysis     = "analysis"
	KeyBriefs       = "briefs"
	KeyDispatch     = "dispatch"
	KeyReportPath   = "report_path"
	KeyWorkbookPath = "workbook_path"
)

func extractFetch(s state.State) (netsuite.FetchResult, error) {
	return extract[netsuite.FetchResult](s, KeyFetch)
}

func extractAnalysis(s state.State) (analysis.Result, error) {
	return extract[analysis.Result](s, KeyAnalysis)
}

func extractBriefs(s state.State) (briefs.Result, error) {
	return extract[briefs.Result](s, KeyBriefs)
}

func extractDispatch(s state.State) (DispatchResult, error) {
	return extract[DispatchResult](s, KeyDispatch)
}

func extract[T any](s state.State, key string) (T, error) {
	var zero T

	val, ok := s.Get(key)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrStateMissing, key)
	}

	typed, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s holds %T", ErrStateMissing, key, val)
	}

	return typed, nil
}
