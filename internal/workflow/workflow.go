package workflow

import (
	"context"
	"fmt"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/apachepressure/chaser/internal/analysis"
	"github.com/apachepressure/chaser/internal/briefs"
)

// Result is the full outcome of one engine run.
type Result struct {
	RunID         string         `json:"run_id"`
	AnalysisStats analysis.Stats `json:"analysis_stats"`
	BriefStats    briefs.Stats   `json:"brief_stats"`
	Dispatch      DispatchResult `json:"dispatch"`
	ReportPath    string         `json:"report_path"`
	WorkbookPath  string         `json:"workbook_path,omitempty"`
	CompletedAt   time.Time      `json:"completed_at"`
}

// Execute runs the inquiry workflow: gather → analyze → brief, then
// dispatch when any vendor brief exists, then report. The final state is
// folded into a Result.
func Execute(ctx context.Context, rt *Runtime) (*Result, error) {
	rt.startedAt = time.Now().UTC()

	graph, err := buildGraph(rt)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	finalState, err := graph.Execute(ctx, state.New(nil))
	if err != nil {
		return nil, fmt.Errorf("execute graph: %w", err)
	}

	return extractResult(rt, finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("po-inquiry")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("gather", GatherNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("analyze", AnalyzeNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("brief", BriefNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("dispatch", DispatchNode(rt)); err != nil {
		return nil, err
	}
	if err := graph.AddNode("report", ReportNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("gather", "analyze", nil); err != nil {
		return nil, err
	}
	if err := graph.AddEdge("analyze", "brief", nil); err != nil {
		return nil, err
	}

	// brief → dispatch (when any vendor brief exists)
	if err := graph.AddEdge("brief", "dispatch", hasBriefs); err != nil {
		return nil, err
	}

	// brief → report (nothing to draft)
	if err := graph.AddEdge("brief", "report", state.Not(hasBriefs)); err != nil {
		return nil, err
	}

	if err := graph.AddEdge("dispatch", "report", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("gather"); err != nil {
		return nil, err
	}
	if err := graph.SetExitPoint("report"); err != nil {
		return nil, err
	}

	return graph, nil
}

func extractResult(rt *Runtime, s state.State) (*Result, error) {
	an, err := extractAnalysis(s)
	if err != nil {
		return nil, err
	}
	briefResult, err := extractBriefs(s)
	if err != nil {
		return nil, err
	}

	dispatchResult, err := extractDispatch(s)
	if err != nil {
		dispatchResult = DispatchResult{}
	}

	reportPath, err := extract[string](s, KeyReportPath)
	if err != nil {
		return nil, err
	}
	workbookPath, _ := extract[string](s, KeyWorkbookPath)

	return &Result{
		RunID:         rt.Options.RunID,
		AnalysisStats: an.Stats,
		BriefStats:    briefResult.Stats,
		Dispatch:      dispatchResult,
		ReportPath:    reportPath,
		WorkbookPath:  workbookPath,
		CompletedAt:   time.Now(),
	}, nil
}
