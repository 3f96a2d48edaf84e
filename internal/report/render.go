// Package report renders analysis results for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/tradekit/volgate/internal/domain"
	"github.com/tradekit/volgate/internal/services/backtest"
	"github.com/tradekit/volgate/internal/services/sizing"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(0, 2).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)

	dimStyle = lipgloss.NewStyle().Foreground(subtle)
)

// Backtest writes the run summary with its configuration and rejection
// breakdown. Percentages are computed by the report itself and stay 0 on an
// empty run.
func Backtest(w io.Writer, cfg backtest.Config, r backtest.Report) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("VOLUME BACKTEST: %s", r.Pair.String())))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("run %s", r.RunID)))

	fmt.Fprintln(w, sectionStyle.Render("CONFIGURATION"))
	fmt.Fprintf(w, "  Min Volume Ratio:   %gx\n", cfg.Filter.MinVolumeRatio)
	fmt.Fprintf(w, "  Max Volume Ratio:   %gx\n", cfg.Filter.MaxVolumeRatio)
	fmt.Fprintf(w, "  High Z-Score:       %g\n", cfg.Filter.HighVolumeZScore)
	fmt.Fprintf(w, "  Low Z-Score:        %g\n", cfg.Filter.LowVolumeZScore)
	fmt.Fprintf(w, "  Require Increasing: %t\n", cfg.Filter.RequireIncreasingVolume)
	fmt.Fprintf(w, "  VWAP Distance:      %g%%\n", cfg.Filter.VWAPDistancePct)
	fmt.Fprintf(w, "  Warmup:             %d\n", cfg.Warmup)

	fmt.Fprintln(w, sectionStyle.Render("RESULTS"))
	fmt.Fprintf(w, "  Total Entries:      %d\n", r.TotalEntries)
	fmt.Fprintf(w, "  Allowed Entries:    %d (%.1f%%)\n", r.AllowedEntries, r.AllowedPct())
	fmt.Fprintf(w, "  Rejected Entries:   %d (%.1f%%)\n", r.RejectedEntries, r.RejectedPct())

	if len(r.RejectionBreakdown) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("REJECTION BREAKDOWN"))

		verdicts := make([]string, 0, len(r.RejectionBreakdown))
		for v := range r.RejectionBreakdown {
			verdicts = append(verdicts, string(v))
		}
		sort.Strings(verdicts)

		for _, v := range verdicts {
			verdict := domain.Verdict(v)
			fmt.Fprintf(w, "  %s: %d (%.1f%%)\n", v, r.RejectionBreakdown[verdict], r.BreakdownPct(verdict))
		}
	}
}

// Profile writes the distribution statistics for a pair and timeframe.
func Profile(w io.Writer, pair domain.Pair, timeframe string, p domain.VolumeProfile) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("VOLUME PROFILE: %s (%s)", pair.String(), timeframe)))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("period: %s, candles: %d", p.Period, p.CandleCount)))

	fmt.Fprintln(w, sectionStyle.Render("STATISTICS"))
	fmt.Fprintf(w, "  Average:  %.2f\n", p.Avg)
	fmt.Fprintf(w, "  Median:   %.2f\n", p.Median)
	fmt.Fprintf(w, "  Std Dev:  %.2f\n", p.Std)
	fmt.Fprintf(w, "  Total:    %.2f\n", p.Total)

	fmt.Fprintln(w, sectionStyle.Render("PERCENTILES"))
	fmt.Fprintf(w, "  P25: %.2f\n", p.P25)
	fmt.Fprintf(w, "  P50: %.2f\n", p.P50)
	fmt.Fprintf(w, "  P75: %.2f\n", p.P75)
	fmt.Fprintf(w, "  P90: %.2f\n", p.P90)
}

// Metrics writes the profile followed by the most recent metric snapshots.
func Metrics(w io.Writer, pair domain.Pair, p domain.VolumeProfile, recent []domain.VolumeMetrics) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("VOLUME ANALYSIS: %s", pair.String())))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("period: %s, candles: %d", p.Period, p.CandleCount)))

	fmt.Fprintln(w, sectionStyle.Render("VOLUME PROFILE"))
	fmt.Fprintf(w, "  Average:  %.2f\n", p.Avg)
	fmt.Fprintf(w, "  Median:   %.2f\n", p.Median)
	fmt.Fprintf(w, "  Std Dev:  %.2f\n", p.Std)
	fmt.Fprintf(w, "  P25/P50/P75/P90: %.2f / %.2f / %.2f / %.2f\n", p.P25, p.P50, p.P75, p.P90)

	fmt.Fprintln(w, sectionStyle.Render("RECENT METRICS"))
	for _, m := range recent {
		line := fmt.Sprintf("  %s | vol: %.0f | ratio: %.2fx | z: %.2f | trend: %s",
			m.Timestamp.Format("2006-01-02 15:04"), m.Volume, m.Ratio, m.ZScore, m.Trend)
		if m.Anomaly {
			line += fmt.Sprintf(" | anomaly: %s", m.AnomalyType)
		}
		fmt.Fprintln(w, line)
	}
}

// Sizing writes a position size recommendation.
func Sizing(w io.Writer, pair domain.Pair, price float64, r sizing.Result) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("POSITION SIZE: %s", pair.String())))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("entry price: %.2f", price)))

	fmt.Fprintln(w, sectionStyle.Render("RECOMMENDATION"))
	fmt.Fprintf(w, "  Position Size:  %.2f USD (%.2f%% of account)\n", r.PositionSizeUSD, r.PositionSizePct)
	fmt.Fprintf(w, "  Risk Amount:    %.2f USD\n", r.RiskAmount)
	fmt.Fprintf(w, "  ATR:            %.4f\n", r.ATR)
	fmt.Fprintf(w, "  Volatility:     %s\n", r.Level)
}

// Decisions writes stored decisions newest first.
func Decisions(w io.Writer, list []domain.VolumeDecision) {
	fmt.Fprintln(w, headerStyle.Render("VOLUME DECISIONS"))
	if len(list) == 0 {
		fmt.Fprintln(w, dimStyle.Render("no decisions stored"))
		return
	}

	for _, d := range list {
		fmt.Fprintf(w, "  %s | %s | %s | price: %.2f | conf: %.2f | %s\n",
			d.Timestamp.Format("2006-01-02 15:04"), d.Pair.String(), d.Verdict, d.Price, d.Confidence, d.Reason)
	}
}
