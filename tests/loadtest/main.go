package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:18090"
	numWorkers   = 50
	testDuration = 10 * time.Second
	numImages    = 1000
	numProjects  = 20
)

var locations = []string{
	"Silverstone Pit Lane", "Monza Track", "Alpine Mountain Pass", "City Street",
	"Studio B Portrait", "Beach Front", "Black Forest", "Urban Rooftop", "Hangar",
}

var catalogIDs = []string{"1", "2", "3", "4", "5", "6"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== presetd Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Images: %d | Projects: %d\n\n", numImages, numProjects)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: matching only, the catalog is static
	fmt.Println("\n--- Phase 1: Matching (POST /match) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doMatch(rng, false)
	})

	// Phase 2: mixed read/write load
	fmt.Println("\n--- Phase 2: Mixed load (40% match, 30% reads, 30% writes) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.30:
			return doMatch(rng, false)
		case r < 0.40:
			return doMatch(rng, true)
		case r < 0.55:
			return doListPresets()
		case r < 0.70:
			return doGetPreset(rng)
		case r < 0.80:
			return doApply(rng)
		case r < 0.90:
			return doSetProjectDefault(rng)
		default:
			return doSetActive(rng)
		}
	})

	// Phase 3: read-heavy load, cache hits dominate
	fmt.Println("\n--- Phase 3: Read-heavy load (5% writes, 95% reads) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.05:
			return doApply(rng)
		case r < 0.50:
			return doMatch(rng, false)
		case r < 0.75:
			return doListPresets()
		default:
			return doGetPreset(rng)
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-22s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-22s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func request(label, method, url string, body []byte, want int) result {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return result{label, 0, 0, true}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{label, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{label, resp.StatusCode, lat, resp.StatusCode != want}
}

func randomMetadata(rng *rand.Rand) []byte {
	hour := rng.Intn(24)
	body := map[string]interface{}{
		"iso":          []int{100, 200, 400, 800, 1600, 3200}[rng.Intn(6)],
		"shutterSpeed": 1.0 / float64([]int{30, 60, 125, 500, 2000}[rng.Intn(5)]),
		"location":     locations[rng.Intn(len(locations))],
		"timestamp":    fmt.Sprintf("2024-06-01T%02d:15:00Z", hour),
	}
	if rng.Float64() < 0.5 {
		body["aperture"] = []float64{1.4, 2.0, 2.8, 5.6, 8}[rng.Intn(5)]
	}
	data, _ := json.Marshal(body)
	return data
}

func doMatch(rng *rand.Rand, apply bool) result {
	if apply {
		url := fmt.Sprintf("%s/match?apply=true&image=img_%d", baseURL, rng.Intn(numImages))
		return request("POST /match?apply", http.MethodPost, url, randomMetadata(rng), 200)
	}
	return request("POST /match", http.MethodPost, baseURL+"/match", randomMetadata(rng), 200)
}

func doListPresets() result {
	return request("GET /presets", http.MethodGet, baseURL+"/presets", nil, 200)
}

func doGetPreset(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/preset?id=%s", baseURL, catalogIDs[rng.Intn(len(catalogIDs))])
	return request("GET /preset", http.MethodGet, url, nil, 200)
}

func doApply(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/preset/apply?id=%s&image=img_%d", baseURL, catalogIDs[rng.Intn(len(catalogIDs))], rng.Intn(numImages))
	return request("POST /preset/apply", http.MethodPost, url, nil, 200)
}

func doSetProjectDefault(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/project/default?project=proj_%d&preset=%s", baseURL, rng.Intn(numProjects), catalogIDs[rng.Intn(len(catalogIDs))])
	return request("PUT /project/default", http.MethodPut, url, nil, 200)
}

func doSetActive(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/active?id=%s", baseURL, catalogIDs[rng.Intn(len(catalogIDs))])
	return request("PUT /active", http.MethodPut, url, nil, 200)
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
