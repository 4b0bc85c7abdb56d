// Command smoke probes a running timetable API deployment and reports
// per-endpoint status and latency. Critical target failures exit non-zero so
// the check can gate a rollout.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Expect   int    `json:"expect"`
	Critical bool   `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type probe struct {
	Target   target
	Status   int
	Duration time.Duration
	Slow     bool
	Error    error
}

func main() {
	var (
		baseURL     string
		token       string
		targetsPath string
		timeout     time.Duration
		slowAfter   time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:8080", "Timetable API base URL")
	flag.StringVar(&token, "token", os.Getenv("SMOKE_TOKEN"), "Bearer token for protected routes")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "smoke", "targets.json"), "Path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.DurationVar(&slowAfter, "slow-after", 500*time.Millisecond, "Latency above which a probe is flagged slow")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load targets: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	var (
		probes   []probe
		breaking int
		warnings int
	)

	for _, t := range targets {
		p := probeTarget(client, baseURL, token, t, slowAfter)
		switch {
		case p.Error != nil || p.Status != t.expectedStatus():
			if t.Critical {
				breaking++
			} else {
				warnings++
			}
		case p.Slow:
			warnings++
		}
		probes = append(probes, p)
	}

	printReport(probes)

	fmt.Printf("Failing critical targets: %d, Warnings: %d\n", breaking, warnings)
	if breaking > 0 {
		os.Exit(1)
	}
}

func (t target) expectedStatus() int {
	if t.Expect > 0 {
		return t.Expect
	}
	return http.StatusOK
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func probeTarget(client *http.Client, base, token string, tgt target, slowAfter time.Duration) probe {
	p := probe{Target: tgt}

	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		p.Error = err
		return p
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	p.Duration = time.Since(start)
	if err != nil {
		p.Error = err
		return p
	}
	defer resp.Body.Close()

	p.Status = resp.StatusCode
	p.Slow = p.Duration > slowAfter
	return p
}

func printReport(results []probe) {
	fmt.Println("Smoke Check Report")
	fmt.Println("==================")
	for _, res := range results {
		status := "OK"
		switch {
		case res.Error != nil:
			status = "ERROR"
		case res.Status != res.Target.expectedStatus():
			status = "FAIL"
		case res.Slow:
			status = "SLOW"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Status: %d (want %d) in %s | Critical: %t\n",
			res.Status, res.Target.expectedStatus(), res.Duration, res.Target.Critical)
	}
}
