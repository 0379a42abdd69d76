package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/botprobe/botprobe/pkg/report"
	"github.com/botprobe/botprobe/pkg/scoring"
)

// PrintSiteResult prints one scored site:
//
//	[2/4] pixelscan  7/10  HIGH  webdriver, plugins, canvas
func PrintSiteResult(index, total int, res *report.SiteResult) {
	fired := "no signals"
	if f := res.Fired(); len(f) > 0 {
		fired = strings.Join(f, ", ")
	}
	fmt.Fprintf(writer(), "  %s %-16s %s %s  %s\n",
		DividerStyle.Render(fmt.Sprintf("[%d/%d]", index+1, total)),
		res.Name,
		ScoreStyle(res.Score).Render(fmt.Sprintf("%2d/%d", res.Score, scoring.MaxScore)),
		RiskBadge(res.Level),
		HelpStyle.Render(fired))
}

// PrintSiteFailure prints a skipped site.
func PrintSiteFailure(index, total int, name, kind string, err error) {
	fmt.Fprintf(writer(), "  %s %-16s %s %s\n",
		DividerStyle.Render(fmt.Sprintf("[%d/%d]", index+1, total)),
		name,
		FailStyle.Render(Icon("✗ ", "x ")+kind),
		HelpStyle.Render(err.Error()))
}

// PrintSummary prints the per-level totals of a run.
func PrintSummary(run *report.Run) {
	PrintSection("Summary")
	counts := run.LevelCounts()
	for _, level := range []scoring.Level{scoring.LevelHigh, scoring.LevelMedium, scoring.LevelLow} {
		fmt.Fprintf(writer(), "  %s %d\n", RiskBadge(level), counts[level])
	}
	PrintConfigLine("Analyzed", fmt.Sprintf("%d", len(run.Sites)))
	if len(run.Failures) > 0 {
		PrintConfigLine("Failed", fmt.Sprintf("%d", len(run.Failures)))
	}
	PrintConfigLine("Duration", run.Duration().Round(time.Second).String())
	if run.Interrupted {
		PrintWarning("run interrupted, results are partial")
	}
}
