// Package main times the changetree CLI against real repositories.
// Each command runs first without a cache, then against a fresh SQLite cache.
// The first cached run counts as cold and the remaining runs are averaged as warm.
//
// Prerequisites:
// - changetree binary installed and available in PATH
// - Test repositories cloned to the specified base directory: csv-parser, fd, git, kubernetes
//
// Usage: go run benchmark/main.go [repo-base-dir]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the timings of one command on one repository.
type BenchmarkResult struct {
	Repository  string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
	SubDirs     map[string]string
}

// benchmarkCase is one command line to time.
type benchmarkCase struct {
	name        string
	args        []string
	successText string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:    os.Args[1],
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		TestRepos:   []string{"csv-parser", "fd", "git", "kubernetes"},
		SubDirs: map[string]string{
			"csv-parser": "python",
			"fd":         "src",
			"git":        "builtin",
			"kubernetes": "pkg/kubelet",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the changetree binary and test repositories exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("changetree"); err != nil {
		return errors.New("changetree binary not found in PATH")
	}
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

// casesFor lists the command lines timed for one repository.
func casesFor(config BenchmarkConfig, repo string) []benchmarkCase {
	cases := []benchmarkCase{
		{name: "tree", args: []string{"tree", "--depth", "2"}, successText: "Built from"},
	}
	if sub, ok := config.SubDirs[repo]; ok {
		cases = append(cases, benchmarkCase{
			name:        "tree-subdir",
			args:        []string{"tree", "--path", sub, "--depth", "3"},
			successText: "Built from",
		})
	}
	exportPath := filepath.Join(os.TempDir(), "changetree_benchmark_"+repo+".parquet")
	cases = append(cases, benchmarkCase{
		name:        "export",
		args:        []string{"export", "--output-file", exportPath},
		successText: "Wrote",
	})
	return cases
}

// runBenchmarks executes all benchmark cases across configured repositories.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.TestRepos), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, repo := range config.TestRepos {
		fmt.Printf("Benchmarking %s\n", repo)
		repoPath := filepath.Join(config.RepoBase, repo)
		for _, bc := range casesFor(config, repo) {
			results = append(results, runBenchmarkSuite(config, repo, repoPath, bc))
		}
	}
	return results
}

// runBenchmarkSuite runs the no-cache and cache phases for one case.
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath string, bc benchmarkCase) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", bc.name, repo)

	_, noCache := runBenchmark(config, repoPath, bc, "none", config.NoCacheRuns)
	noCacheAvg := formatAverage(noCache)

	clearCache()
	cold, warm := runBenchmark(config, repoPath, bc, "sqlite", config.CacheRuns)
	coldStr := "TIMEOUT"
	if cold > 0 {
		coldStr = fmt.Sprintf("%.3fs", cold)
	}
	warmAvg := formatAverage(warm)

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldStr, warmAvg)

	return BenchmarkResult{
		Repository:  repo,
		Command:     bc.name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldStr,
		WarmTime:    warmAvg,
	}
}

// clearCache empties the default SQLite cache so the next run starts cold.
func clearCache() {
	if output, err := exec.Command("changetree", "cache", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}
}

// runBenchmark runs one case numRuns times and splits the first successful run from the rest.
func runBenchmark(config BenchmarkConfig, repoPath string, bc benchmarkCase, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append(append([]string{}, bc.args...), "--cache-backend", cacheBackend)

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		cmd := exec.CommandContext(ctx, "changetree", args...)
		cmd.Dir = repoPath
		output, err := cmd.CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()

		if err == nil && strings.Contains(string(output), bc.successText) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return coldTime, warmTimes
}

func formatAverage(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("changetree_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"repo", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Repository, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by command.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"tree", "tree-subdir", "export"} {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", result.Repository, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
}
