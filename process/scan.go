// Package process implements program commands working with stylesheets.
package process

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssexpr/css"
	"cssexpr/expr"
	"cssexpr/state"
)

// finding is a declaration which value has to be computed by the host.
type finding struct {
	source   string
	prelude  string
	selector string
	decl     css.Declaration
}

func (f finding) String() string {
	important := ""
	if f.decl.Important {
		important = " !important"
	}
	if f.prelude != "" {
		return fmt.Sprintf("%s\t%s\t%s\t%s: %s%s", f.source, f.prelude, f.selector, f.decl.Property, f.decl.Value, important)
	}
	return fmt.Sprintf("%s\t%s\t%s: %s%s", f.source, f.selector, f.decl.Property, f.decl.Value, important)
}

func scan(sources []source, parser *css.Parser, normalize bool) []finding {
	var found []finding
	for _, src := range sources {
		sheet := parser.Parse(src.data, src.name)
		sheet.EachDeclaration(func(prelude string, rule *css.Rule, d *css.Declaration) {
			if expr.IsVarCSS(d.Value, normalize) {
				found = append(found, finding{source: src.name, prelude: prelude, selector: rule.Selector, decl: *d})
			}
		})
	}
	return found
}

// scanSelectors returns findings grouped by selector in natural order. Only
// the last declaration of every property in a rule is considered, earlier ones
// are overridden.
func scanSelectors(sources []source, parser *css.Parser, normalize bool) []finding {
	var found []finding
	for _, src := range sources {
		sheet := parser.Parse(src.data, src.name)
		bySelector := make(map[string][]finding)
		visited := make(map[*css.Rule]bool)
		sheet.EachDeclaration(func(prelude string, rule *css.Rule, _ *css.Declaration) {
			if visited[rule] {
				return
			}
			visited[rule] = true
			bySelector[rule.Selector] = append(bySelector[rule.Selector], effective(src.name, prelude, rule, normalize)...)
		})
		for _, sel := range sheet.Selectors() {
			found = append(found, bySelector[sel]...)
		}
	}
	return found
}

func effective(name, prelude string, rule *css.Rule, normalize bool) []finding {
	var found []finding
	seen := make(map[string]bool)
	for _, d := range rule.Declarations {
		if seen[d.Property] {
			continue
		}
		seen[d.Property] = true
		last, _ := rule.Get(d.Property)
		if expr.IsVarCSS(last.Value, normalize) {
			found = append(found, finding{source: name, prelude: prelude, selector: rule.Selector, decl: last})
		}
	}
	return found
}

// Scan lists declarations which values need evaluation.
func Scan(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("scan")

	if cmd.Args().Len() == 0 {
		return errNoSource
	}
	normalize := cmd.Bool("normalize") || env.Cfg.Evaluation.Normalize

	defer func(start time.Time) {
		log.Debug("Scan completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	sources, err := readSources(ctx, cmd.Args().Slice(), log)
	storeSources(env, sources)

	var found []finding
	if cmd.Bool("by-selector") {
		found = scanSelectors(sources, css.NewParser(log), normalize)
	} else {
		found = scan(sources, css.NewParser(log), normalize)
	}
	if werr := writeFindings(os.Stdout, found); werr != nil {
		return werr
	}
	log.Debug("Declarations requiring evaluation", zap.Int("sources", len(sources)), zap.Int("found", len(found)))
	return err
}

func writeFindings(w io.Writer, found []finding) error {
	for _, f := range found {
		if _, err := fmt.Fprintln(w, f); err != nil {
			return err
		}
	}
	return nil
}

func storeSources(env *state.LocalEnv, sources []source) {
	for _, src := range sources {
		env.Rpt.StoreData("input/"+filepath.Base(src.name), src.data)
	}
}
