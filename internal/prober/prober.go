package prober

import (
	"net/http"
	"sync"
	"time"

	"github.com/appdex-dev/appdex/internal/types"
)

// DefaultTimeout bounds every individual probe.
const DefaultTimeout = 5 * time.Second

// Result is the outcome of a single reachability probe. Failures never
// surface as errors; they fold into a down status with the cause in Error.
type Result struct {
	Status       string `json:"status"`
	StatusCode   int    `json:"statusCode,omitempty"`
	ResponseTime int    `json:"responseTime"`
	Error        string `json:"error,omitempty"`
}

type Prober struct {
	client *http.Client
}

func New(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Prober{
		client: &http.Client{Timeout: timeout},
	}
}

// Check probes url once. Status is up only for a 2xx response within the
// timeout; timeouts, DNS failures, refused connections and non-2xx
// responses all reduce to down.
func (p *Prober) Check(url string) Result {
	start := time.Now()

	resp, err := p.client.Get(url)

	elapsed := int(time.Since(start).Milliseconds())

	if err != nil {
		return Result{Status: types.StatusDown, ResponseTime: elapsed, Error: err.Error()}
	}

	defer resp.Body.Close()

	result := Result{
		Status:       types.StatusDown,
		StatusCode:   resp.StatusCode,
		ResponseTime: elapsed,
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		result.Status = types.StatusUp
	} else {
		result.Error = "unexpected status: " + resp.Status
	}

	return result
}

// CheckAll probes every URL concurrently and joins on completion of all of
// them. Output order matches input order and no probe short-circuits the
// batch, so N targets cost roughly the slowest single probe, bounded by the
// per-probe timeout. An empty URL is not probed; it is stamped with the
// missing status the caller chose for its path.
func (p *Prober) CheckAll(urls []string, missing string) []Result {
	results := make([]Result, len(urls))

	var wg sync.WaitGroup

	for i, url := range urls {
		if url == "" {
			results[i] = Result{Status: missing}
			continue
		}

		wg.Add(1)

		go func(i int, url string) {
			defer wg.Done()
			results[i] = p.Check(url)
		}(i, url)
	}

	wg.Wait()

	return results
}
