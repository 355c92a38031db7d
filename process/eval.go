package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssexpr/css"
	"cssexpr/expr"
	"cssexpr/host"
	"cssexpr/state"
)

var errFunctionSyntax = errors.New("function syntax is not evaluated")

// evaluate computes declaration values of the sheet in place. Declarations
// which cannot be computed are left untouched, failures are returned
// together. Custom properties are never rewritten.
func evaluate(sheet *css.Stylesheet, ctx expr.Context, ev *expr.Evaluator, normalize bool, log *zap.Logger) (int, error) {
	var (
		changed int
		errs    error
	)
	report := func(prelude string, rule *css.Rule, d *css.Declaration, err error) {
		where := rule.Selector
		if prelude != "" {
			where = prelude + " " + where
		}
		errs = multierr.Append(errs, fmt.Errorf("%s { %s: %s }: %w", where, d.Property, d.Value, err))
	}
	sheet.EachDeclaration(func(prelude string, rule *css.Rule, d *css.Declaration) {
		if d.Custom || !expr.IsVarCSS(d.Value, normalize) {
			return
		}
		lit := css.ParseLiteral(d.Value)
		if _, ok := lit.(*expr.Passthrough); ok {
			report(prelude, rule, d, errFunctionSyntax)
			return
		}
		n, dim, err := css.Bind(d.Property, lit)
		if err == nil {
			if ce := log.Check(zap.DebugLevel, "Expression tree"); ce != nil {
				ce.Write(zap.String("property", d.Property), zap.Stringer("dim", dim), zap.String("tree", expr.Dump(n)))
			}
			var (
				value string
				ok    bool
			)
			if value, ok, err = ev.Evaluate(n, ctx, dim); err == nil {
				if !ok {
					log.Debug("Value cannot be computed, keeping", zap.String("selector", rule.Selector), zap.String("property", d.Property))
					return
				}
				if value != d.Value {
					log.Debug("Value computed", zap.String("selector", rule.Selector), zap.String("property", d.Property),
						zap.String("from", d.Value), zap.String("to", value))
					d.Value = value
					changed++
				}
				return
			}
		}
		report(prelude, rule, d, err)
	})
	return changed, errs
}

// Eval computes values in stylesheets and writes results.
func Eval(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("eval")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errNoSource
	}
	dst := cmd.Args().Get(1)
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}
	env.Normalize = cmd.Bool("normalize")

	sources, err := readSources(ctx, []string{src}, log)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no stylesheets in %q", src)
	}
	storeSources(env, sources)

	h, err := host.NewStatic(&env.Cfg.Environment, log)
	if err != nil {
		return fmt.Errorf("unable to prepare evaluation context: %w", err)
	}

	out := io.Writer(os.Stdout)
	if len(dst) > 0 {
		f, ferr := os.Create(dst)
		if ferr != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", dst, ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				err = multierr.Append(err, cerr)
			}
		}()
		out = f
	}

	log.Debug("Evaluation starting", zap.String("source", src), zap.Int("stylesheets", len(sources)))
	defer func(start time.Time) {
		log.Debug("Evaluation completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return evalSources(ctx, sources, h, env, out, log)
}

func evalSources(ctx context.Context, sources []source, h *host.Static, env *state.LocalEnv, out io.Writer, log *zap.Logger) error {
	ev := env.Evaluator()
	normalize := env.Normalize || env.Cfg.Evaluation.Normalize
	parser := css.NewParser(log)

	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		sheet := parser.Parse(src.data, src.name)
		for _, w := range sheet.Warnings {
			log.Warn("Stylesheet problem", zap.String("source", src.name), zap.String("warning", w))
		}
		if imports := sheet.Imports(); len(imports) > 0 {
			log.Warn("Imported stylesheets are not evaluated", zap.String("source", src.name), zap.Strings("imports", imports))
		}
		if env.Cfg.Evaluation.StylesheetVars {
			h.AddVars(sheet.Variables())
		}

		changed, err := evaluate(sheet, h, ev, normalize, log)
		for _, e := range multierr.Errors(err) {
			log.Warn("Unable to compute value", zap.String("source", src.name), zap.Error(e))
		}
		log.Debug("Stylesheet evaluated", zap.String("source", src.name), zap.Int("changed", changed))

		if len(sources) > 1 {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "/* %s */\n", src.name)
		}
		if _, err := sheet.WriteTo(out); err != nil {
			return fmt.Errorf("unable to write results: %w", err)
		}
	}
	return nil
}
