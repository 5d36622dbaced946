// drugbank_throttle.go
//
// Throttle harness: fires a burst of concurrent interaction queries at the
// mock source to observe rate-limit signaling and the opt-in retry loop
// under contention. Run with:
//
//	go run ./test
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	ddibridge "github.com/clinisafe/ddi-bridge"
	"github.com/clinisafe/ddi-bridge/interactions"
	"github.com/clinisafe/ddi-bridge/logging"
	"github.com/clinisafe/ddi-bridge/mock"
)

const (
	totalRequests = 25
	concurrency   = 5
)

func main() {
	logger := logging.New("debug")
	defer logger.Sync()

	src := &mock.MockSource{
		RequestsUntilRateLimit: 10,
		Responses: []*ddibridge.NormalizedResponse{
			{StatusCode: 200, Headers: map[string]string{}, Data: []byte(`{"total_results":0,"interactions":[]}`)},
		},
	}

	sdk := ddibridge.NewDDIBridge()
	sdk.SetLogger(logger)
	sdk.RegisterSource(interactions.DefaultSource, src, &ddibridge.SourceConfig{
		UseSourceLimits: true,
		MaxRetries:      2,
		BaseBackoff:     100 * time.Millisecond,
	})

	client := interactions.NewClient(sdk)

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)
	var mu sync.Mutex
	var ok, throttled, failed int

	start := time.Now()
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(n int) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := client.CheckInteractions(context.Background(), []string{"DB00682", "DB00945"}, interactions.RegionUS)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ddibridge.ErrRateLimited):
				throttled++
			default:
				failed++
				log.Printf("request %d: unexpected failure: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	fmt.Printf("done in %v: %d ok, %d rate-limited, %d failed (source saw %d requests)\n",
		time.Since(start), ok, throttled, failed, src.RequestCount())

	if info := sdk.GetRateLimitInfo(interactions.DefaultSource); info != nil && info.RemainingRequests != nil {
		fmt.Printf("remaining in window: %d\n", *info.RemainingRequests)
	}
}
