// Package state defines shared program state.
package state

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"cssexpr/config"
	"cssexpr/expr"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// set by commands from flags, overrides configuration
	Normalize bool

	start         time.Time
	restoreStdLog func()
}

func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// Evaluator returns expression evaluator configured for this run. Configured
// seed makes rand() results reproducible.
func (e *LocalEnv) Evaluator() *expr.Evaluator {
	normalize := e.Normalize
	var seed uint64
	if e.Cfg != nil {
		normalize = normalize || e.Cfg.Evaluation.Normalize
		seed = e.Cfg.Evaluation.Seed
	}
	ev := expr.NewEvaluator(e.Log, normalize)
	if seed != 0 {
		ev = ev.WithRand(rand.New(rand.NewPCG(seed, seed)).Float64)
	}
	return ev
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
