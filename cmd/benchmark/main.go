// Calibration tool for testing Heron verdicts against labeled cases.
//
// Usage:
//   go run cmd/benchmark/main.go -csv /path/to/labeled_cases.csv -url http://localhost:8080
//
// This tool:
//  1. Reads labeled cases (user_id plus the conclusion a human analyst reached)
//  2. Triggers a single-user analysis for each via POST /analyze
//  3. Compares the pipeline's conclusion with the analyst label
//  4. Calculates precision, recall, F1-score, and the confusion matrix
//
// A case counts as flagged when the pipeline concludes suspicious or
// offense; normal and unresolved count as not flagged.
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// LabeledCase is one row from the calibration CSV: user_id,conclusion.
type LabeledCase struct {
	UserID     int64
	Conclusion string
}

// Flagged reports whether the analyst label is an actionable conclusion.
func (c LabeledCase) Flagged() bool {
	return c.Conclusion == "suspicious" || c.Conclusion == "offense"
}

// AnalyzeRequest is the Heron API request format.
type AnalyzeRequest struct {
	UserID int64 `json:"user_id"`
}

// AnalyzeResponse is the subset of the run summary the tool needs.
type AnalyzeResponse struct {
	Analyzed   int `json:"analyzed"`
	Suspicious int `json:"suspicious"`
	Failed     int `json:"failed"`
}

// Metrics tracks calibration results.
type Metrics struct {
	TruePositives  int64 // analyst flagged, pipeline flagged
	FalsePositives int64 // analyst cleared, pipeline flagged
	TrueNegatives  int64 // analyst cleared, pipeline cleared
	FalseNegatives int64 // analyst flagged, pipeline cleared (missed case!)

	TotalProcessed int64
	TotalFlagged   int64
	TotalErrors    int64
}

func main() {
	csvPath := flag.String("csv", "", "Path to labeled cases CSV (user_id,conclusion)")
	baseURL := flag.String("url", "http://localhost:8080", "Heron base URL")
	limit := flag.Int("limit", 0, "Maximum cases to process (0 = all)")
	workers := flag.Int("workers", 4, "Number of concurrent workers")
	verbose := flag.Bool("verbose", false, "Print each case result")
	flag.Parse()

	if *csvPath == "" {
		fmt.Println("Usage: benchmark -csv /path/to/labeled_cases.csv [-url http://localhost:8080]")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("HERON CALIBRATION - labeled case replay")
	fmt.Printf("\nCSV File:  %s\n", *csvPath)
	fmt.Printf("Heron URL: %s\n", *baseURL)
	fmt.Printf("Workers:   %d\n", *workers)
	fmt.Println()

	// Check Heron is running
	if err := checkHealth(*baseURL); err != nil {
		fmt.Printf("ERROR: Heron not reachable at %s: %v\n", *baseURL, err)
		fmt.Println("\nMake sure Heron is running:")
		fmt.Println("  go run cmd/heron/main.go")
		os.Exit(1)
	}
	fmt.Println("Heron is healthy")

	cases, err := readLabeledCases(*csvPath, *limit)
	if err != nil {
		fmt.Printf("ERROR: Failed to read CSV: %v\n", err)
		os.Exit(1)
	}

	flagged := 0
	for _, c := range cases {
		if c.Flagged() {
			flagged++
		}
	}
	fmt.Printf("Loaded %d cases (%d flagged by analysts)\n", len(cases), flagged)

	fmt.Printf("\nReplaying cases with %d workers...\n", *workers)
	startTime := time.Now()
	metrics := runCalibration(cases, *baseURL, *workers, *verbose)
	duration := time.Since(startTime)

	printResults(metrics, duration)
}

func checkHealth(baseURL string) error {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

func readLabeledCases(path string, limit int) ([]LabeledCase, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.ToLower(strings.TrimSpace(col))] = i
	}

	userCol, ok := colIndex["user_id"]
	if !ok {
		return nil, fmt.Errorf("missing user_id column")
	}
	conclusionCol, ok := colIndex["conclusion"]
	if !ok {
		return nil, fmt.Errorf("missing conclusion column")
	}

	var cases []LabeledCase
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // Skip malformed rows
		}

		userID, err := strconv.ParseInt(strings.TrimSpace(record[userCol]), 10, 64)
		if err != nil || userID <= 0 {
			continue
		}

		cases = append(cases, LabeledCase{
			UserID:     userID,
			Conclusion: strings.ToLower(strings.TrimSpace(record[conclusionCol])),
		})

		if limit > 0 && len(cases) >= limit {
			break
		}
	}

	return cases, nil
}

func runCalibration(cases []LabeledCase, baseURL string, workers int, verbose bool) *Metrics {
	metrics := &Metrics{}

	jobs := make(chan LabeledCase, len(cases))
	for _, c := range cases {
		jobs <- c
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := &http.Client{Timeout: 5 * time.Minute}

			for c := range jobs {
				pipelineFlagged, err := analyzeCase(client, baseURL, c.UserID)
				if err != nil {
					atomic.AddInt64(&metrics.TotalErrors, 1)
					if verbose {
						fmt.Printf("  user %d: ERROR %v\n", c.UserID, err)
					}
					continue
				}

				atomic.AddInt64(&metrics.TotalProcessed, 1)
				if pipelineFlagged {
					atomic.AddInt64(&metrics.TotalFlagged, 1)
				}

				switch {
				case c.Flagged() && pipelineFlagged:
					atomic.AddInt64(&metrics.TruePositives, 1)
				case !c.Flagged() && pipelineFlagged:
					atomic.AddInt64(&metrics.FalsePositives, 1)
				case !c.Flagged() && !pipelineFlagged:
					atomic.AddInt64(&metrics.TrueNegatives, 1)
				case c.Flagged() && !pipelineFlagged:
					atomic.AddInt64(&metrics.FalseNegatives, 1)
				}

				if verbose {
					fmt.Printf("  user %d: analyst=%s pipeline_flagged=%v\n",
						c.UserID, c.Conclusion, pipelineFlagged)
				}
			}
		}()
	}
	wg.Wait()

	return metrics
}

// analyzeCase triggers a single-user run and reports whether the pipeline
// produced a suspicious or offense verdict for it.
func analyzeCase(client *http.Client, baseURL string, userID int64) (bool, error) {
	body, err := json.Marshal(AnalyzeRequest{UserID: userID})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequest(http.MethodPost, baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var result AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}
	if result.Analyzed == 0 {
		return false, fmt.Errorf("user skipped (failed=%d)", result.Failed)
	}

	return result.Suspicious > 0, nil
}

func printResults(m *Metrics, duration time.Duration) {
	fmt.Println()
	fmt.Println("RESULTS")
	fmt.Printf("  Processed: %d cases in %s\n", m.TotalProcessed, duration.Round(time.Second))
	fmt.Printf("  Flagged:   %d\n", m.TotalFlagged)
	fmt.Printf("  Errors:    %d\n", m.TotalErrors)
	fmt.Println()
	fmt.Println("  Confusion matrix:")
	fmt.Printf("    True positives:  %d\n", m.TruePositives)
	fmt.Printf("    False positives: %d\n", m.FalsePositives)
	fmt.Printf("    True negatives:  %d\n", m.TrueNegatives)
	fmt.Printf("    False negatives: %d  (missed cases)\n", m.FalseNegatives)
	fmt.Println()

	precision := ratio(m.TruePositives, m.TruePositives+m.FalsePositives)
	recall := ratio(m.TruePositives, m.TruePositives+m.FalseNegatives)
	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	fmt.Printf("  Precision: %.4f\n", precision)
	fmt.Printf("  Recall:    %.4f\n", recall)
	fmt.Printf("  F1-score:  %.4f\n", f1)
	fmt.Println()
}

func ratio(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
