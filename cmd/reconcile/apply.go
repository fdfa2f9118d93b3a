package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/internal/treefile"
	"github.com/vango-dev/reconcile/pkg/engine"
	"github.com/vango-dev/reconcile/pkg/middleware"
	"github.com/vango-dev/reconcile/pkg/render"
)

func applyCmd(g *globals) *cobra.Command {
	var (
		stats   bool
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "apply OLD NEW",
		Short: "Patch a render of OLD into NEW and print the result",
		Long: `Render OLD, apply the diff of OLD and NEW to the live tree and print
the patched HTML.

The patched tree is checked against a fresh render of NEW; a mismatch
fails with E400.

Examples:
  reconcile apply before.html after.html
  reconcile apply old.yaml new.yaml --stats --metrics`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), g, cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], args[1],
				stats, metrics || g.cfg.Metrics.Enabled)
		},
	}

	cmd.Flags().BoolVar(&stats, "stats", false, "Print cycle statistics to stderr")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Print cycle metrics to stderr (default from reconcile.json)")

	return cmd
}

func runApply(ctx context.Context, g *globals, out, stderr io.Writer, oldPath, newPath string, stats, metrics bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	loader := treefile.NewLoader()
	prev, err := loader.Load(oldPath)
	if err != nil {
		return err
	}
	next, err := loader.Load(newPath)
	if err != nil {
		return err
	}

	mw := []engine.Middleware{middleware.OpenTelemetry()}
	var registry *prometheus.Registry
	if metrics {
		registry = prometheus.NewRegistry()
		mw = append(mw, middleware.Prometheus(
			middleware.WithNamespace(g.cfg.Metrics.Namespace),
			middleware.WithRegistry(registry),
		))
	}

	renderer := render.NewRenderer(render.RendererConfig{Logger: g.logger})
	e := engine.New(prev, nil,
		engine.WithLogger(g.logger),
		engine.WithRenderer(renderer),
		engine.WithMiddleware(mw...),
	)

	c, err := e.Update(ctx, next)
	if err != nil {
		return err
	}

	got := e.Root().HTML()
	want := renderer.Render(next, nil).HTML()
	if got != want {
		return errors.New(errors.CodeVerifyFailed).
			WithDetail(fmt.Sprintf("patched:\n%s\nfresh render:\n%s", got, want)).
			WithSuggestion("Run 'reconcile diff' on the same files and report the patch list")
	}
	printf(out, "%s", got)

	if stats {
		printf(stderr, "cycle %d: %d patches (%d top-level), %d redraws, diff %s, apply %s",
			c.Seq, c.PatchCount(), len(c.Patches), c.Redraws, c.DiffDuration, c.ApplyDuration)
	}
	if registry != nil {
		families, err := registry.Gather()
		if err != nil {
			return err
		}
		writeMetrics(stderr, families)
	}
	return nil
}

// writeMetrics prints counters as "name{labels} value" and histograms as
// their sample count, sorted by line.
func writeMetrics(w io.Writer, families []*dto.MetricFamily) {
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := labelString(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				lines = append(lines, fmt.Sprintf("%s%s %g", mf.GetName(), labels, m.GetCounter().GetValue()))
			case dto.MetricType_HISTOGRAM:
				lines = append(lines, fmt.Sprintf("%s_count%s %d", mf.GetName(), labels, m.GetHistogram().GetSampleCount()))
			}
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		printf(w, "%s", l)
	}
}

func labelString(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}
