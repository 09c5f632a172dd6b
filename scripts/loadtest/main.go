// Loadtest is a concurrent HTTP client that hammers the server's routes and
// checks that every response carries the status and body of the route that
// was requested. It reports throughput and latency percentiles per path.
//
// Usage:
//
//	go run ./scripts/loadtest -base http://localhost:3000 -concurrency 50 -requests 3000
//	go run ./scripts/loadtest -base http://localhost:3000 -out summary.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angeloszaimis/hello-server/internal/handler"
)

type check struct {
	path   string
	status int
	body   string
}

type pathStats struct {
	Count     int32           `json:"count"`
	Mismatch  int32           `json:"mismatch"`
	Errors    int32           `json:"errors"`
	Latencies []time.Duration `json:"-"`
}

type pathSummary struct {
	Count    int32   `json:"count"`
	Mismatch int32   `json:"mismatch"`
	Errors   int32   `json:"errors"`
	P50      float64 `json:"p50_ms"`
	P95      float64 `json:"p95_ms"`
	P99      float64 `json:"p99_ms"`
}

func main() {
	var (
		base        = flag.String("base", "http://localhost:3000", "Server base URL")
		concurrency = flag.Int("concurrency", 10, "Number of concurrent workers")
		requests    = flag.Int("requests", 300, "Total number of requests to send")
		timeoutSec  = flag.Int("timeout", 10, "Per-request timeout in seconds")
		outJSON     = flag.String("out", "", "Write JSON summary to this file (optional)")
		verbose     = flag.Bool("v", false, "Print every mismatch")
	)
	flag.Parse()

	hello, err := json.Marshal(handler.HelloResponse{Message: handler.HelloMessage})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode expected greeting: %v\n", err)
		os.Exit(1)
	}

	checks := []check{
		{path: "/", status: http.StatusOK, body: handler.RootBody},
		{path: "/hello", status: http.StatusOK, body: string(hello)},
		{path: "/does-not-exist", status: http.StatusNotFound, body: handler.NotFoundBody},
	}

	stats := make(map[string]*pathStats, len(checks))
	for _, c := range checks {
		stats[c.path] = &pathStats{}
	}
	var statsMu sync.Mutex
	var failures int32

	client := &http.Client{Timeout: time.Duration(*timeoutSec) * time.Second}
	jobs := make(chan int)
	var wg sync.WaitGroup

	testStart := time.Now()

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				c := checks[idx%len(checks)]
				start := time.Now()
				status, body, err := fetch(client, *base+c.path)
				dur := time.Since(start)

				statsMu.Lock()
				ps := stats[c.path]
				ps.Count++
				ps.Latencies = append(ps.Latencies, dur)
				switch {
				case err != nil:
					ps.Errors++
				case status != c.status || strings.TrimSpace(body) != c.body:
					ps.Mismatch++
				}
				statsMu.Unlock()

				if err != nil || status != c.status || strings.TrimSpace(body) != c.body {
					atomic.AddInt32(&failures, 1)
					if *verbose {
						fmt.Printf("idx=%d path=%s status=%d err=%v\n", idx, c.path, status, err)
					}
				}
			}
		}()
	}

	go func() {
		for i := 0; i < *requests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	wg.Wait()
	totalDuration := time.Since(testStart)

	summaries := make(map[string]pathSummary, len(stats))
	paths := make([]string, 0, len(stats))
	for p := range stats {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	fmt.Println("--- Load Test Summary ---")
	fmt.Printf("Target: %s  Requests: %d  Concurrency: %d\n", *base, *requests, *concurrency)
	fmt.Printf("Duration: %v  Throughput: %.2f req/s  Failures: %d\n",
		totalDuration, float64(*requests)/totalDuration.Seconds(), failures)

	for _, p := range paths {
		ps := stats[p]
		s := pathSummary{Count: ps.Count, Mismatch: ps.Mismatch, Errors: ps.Errors}
		if len(ps.Latencies) > 0 {
			sorted := make([]time.Duration, len(ps.Latencies))
			copy(sorted, ps.Latencies)
			sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
			s.P50 = millis(percentile(sorted, 0.50))
			s.P95 = millis(percentile(sorted, 0.95))
			s.P99 = millis(percentile(sorted, 0.99))
		}
		summaries[p] = s

		fmt.Printf("  %-16s count=%d mismatch=%d errors=%d p50=%.3fms p95=%.3fms p99=%.3fms\n",
			p, s.Count, s.Mismatch, s.Errors, s.P50, s.P95, s.P99)
	}

	if *outJSON != "" {
		f, err := os.Create(*outJSON)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create json file: %v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		enc.Encode(map[string]any{
			"target":         *base,
			"requests":       *requests,
			"concurrency":    *concurrency,
			"failures":       failures,
			"duration_ms":    totalDuration.Milliseconds(),
			"throughput_rps": float64(*requests) / totalDuration.Seconds(),
			"paths":          summaries,
		})
		f.Close()
		fmt.Printf("\nWrote JSON summary to %s\n", *outJSON)
	}

	if failures > 0 {
		os.Exit(2)
	}
}

func fetch(client *http.Client, url string) (int, string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}

	return resp.StatusCode, string(body), nil
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	index := int(float64(len(sorted)-1) * p)
	if index < 0 {
		index = 0
	}
	return sorted[index]
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
