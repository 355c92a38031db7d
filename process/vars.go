package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"cssexpr/css"
	"cssexpr/expr"
	"cssexpr/host"
	"cssexpr/state"
)

// ParseDimension converts command line dimension name.
func ParseDimension(name string) (expr.Dimension, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return expr.DimNone, nil
	case "w", "width":
		return expr.DimWidth, nil
	case "h", "height":
		return expr.DimHeight, nil
	case "z", "depth":
		return expr.DimDepth, nil
	}
	return expr.DimNone, fmt.Errorf("unknown dimension %q", name)
}

// resolveVars writes every known variable resolved in the host, in natural
// order of names. Unresolvable variables are written as is and reported.
func resolveVars(w io.Writer, h *host.Static, ev *expr.Evaluator, dim expr.Dimension) error {
	names := h.VarNames()
	sort.Sort(natural.StringSlice(names))

	var errs error
	for _, name := range names {
		value, ok, err := ev.Evaluate(expr.NewVar(name, nil), h, dim)
		switch {
		case err != nil:
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		case !ok:
			errs = multierr.Append(errs, fmt.Errorf("%s: value cannot be computed", name))
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", name, value); err != nil {
			return err
		}
	}
	return errs
}

// Vars prints resolved values of configured variables and variables declared
// in optional stylesheets.
func Vars(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("vars")

	dim, err := ParseDimension(cmd.String("dim"))
	if err != nil {
		return err
	}
	env.Normalize = cmd.Bool("normalize")

	h, err := host.NewStatic(&env.Cfg.Environment, log)
	if err != nil {
		return fmt.Errorf("unable to prepare evaluation context: %w", err)
	}

	if cmd.Args().Len() > 0 {
		sources, err := readSources(ctx, cmd.Args().Slice(), log)
		if err != nil {
			return err
		}
		storeSources(env, sources)
		parser := css.NewParser(log)
		for _, src := range sources {
			h.AddVars(parser.Parse(src.data, src.name).Variables())
		}
	}

	if err := resolveVars(os.Stdout, h, env.Evaluator(), dim); err != nil {
		for _, e := range multierr.Errors(err) {
			log.Warn("Unable to resolve variable", zap.Error(e))
		}
		return fmt.Errorf("%d variable(s) could not be resolved", len(multierr.Errors(err)))
	}
	return nil
}
