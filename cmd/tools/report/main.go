// Command report renders a stored evaluation as a standalone HTML chart page.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ayusman/asana/internal/eval"
	"github.com/ayusman/asana/internal/store"
)

func main() {
	dbPath := flag.String("db", "", "path to the sqlite database")
	evalID := flag.String("id", "", "evaluation id to render")
	outPath := flag.String("out", "report.html", "output HTML file")
	flag.Parse()

	if *dbPath == "" || *evalID == "" {
		fmt.Fprintln(os.Stderr, "usage: report -db <path> -id <evaluation-id> [-out report.html]")
		os.Exit(2)
	}

	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	record, err := st.Evaluations().GetByID(*evalID)
	if err != nil {
		log.Fatalf("Failed to load evaluation: %v", err)
	}

	var result eval.EvaluationResult
	if err := json.Unmarshal(record.Data, &result); err != nil {
		log.Fatalf("Failed to decode evaluation data: %v", err)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer out.Close()

	if err := renderReport(out, record, &result); err != nil {
		log.Fatalf("Failed to render report: %v", err)
	}

	fmt.Printf("Report written to %s\n", *outPath)
}

// renderReport writes the score and deviation charts for one evaluation.
func renderReport(out *os.File, record *store.Evaluation, result *eval.EvaluationResult) error {
	if err := scoreChart(result, record).Render(out); err != nil {
		return fmt.Errorf("render score chart: %w", err)
	}
	if err := deviationChart(result).Render(out); err != nil {
		return fmt.Errorf("render deviation chart: %w", err)
	}
	return nil
}

// scoreChart builds a bar chart of per-angle scores. Angles that were never
// measured are charted at zero so their absence is visible.
func scoreChart(result *eval.EvaluationResult, record *store.Evaluation) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s: %d/100 (%s)", result.PoseName, result.OverallScore, result.Grade),
			Subtitle: fmt.Sprintf("Evaluation %s, %d aligned pairs, %s",
				record.ID, result.AlignedPairs, record.CreatedAt.Format("2006-01-02 15:04:05")),
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Score", Max: 100}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	names := make([]string, 0, len(result.Angles))
	scores := make([]opts.BarData, 0, len(result.Angles))
	for _, angle := range result.Angles {
		names = append(names, angle.Name)
		value := 0.0
		if angle.Measured {
			value = angle.Score
		}
		scores = append(scores, opts.BarData{Value: value})
	}

	bar.SetXAxis(names).AddSeries("Score", scores)
	return bar
}

// deviationChart builds a bar chart comparing each angle's mean deviation
// against its tolerance.
func deviationChart(result *eval.EvaluationResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Mean deviation vs tolerance (degrees)",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	names := make([]string, 0, len(result.Angles))
	deviations := make([]opts.BarData, 0, len(result.Angles))
	tolerances := make([]opts.BarData, 0, len(result.Angles))
	for _, angle := range result.Angles {
		names = append(names, angle.Name)
		deviations = append(deviations, opts.BarData{Value: angle.MeanDeviation})
		tolerances = append(tolerances, opts.BarData{Value: angle.Tolerance})
	}

	bar.SetXAxis(names).
		AddSeries("Mean deviation", deviations).
		AddSeries("Tolerance", tolerances)
	return bar
}
