package perftests

import (
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	bidding "live-auction/internal/biddingService"
	model "live-auction/internal/models"
)

// LoadScenario defines configurable benchmark parameters
type LoadScenario struct {
	Name         string
	NumBidders   int
	NumAuctions  int
	ReadRatio    int // out of 10
	MaxBidRaise  int
	WatchersEach int
	Burst        bool // if true, no delay between ops
}

// OperationMetrics collects latencies safely
type OperationMetrics struct {
	mu        sync.Mutex
	latencies []time.Duration
}

func (om *OperationMetrics) Record(d time.Duration) {
	om.mu.Lock()
	om.latencies = append(om.latencies, d)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (fastest, slowest, avg, p95, p99 time.Duration) {
	om.mu.Lock()
	latencies := append([]time.Duration(nil), om.latencies...)
	om.mu.Unlock()
	if len(latencies) == 0 {
		return
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fastest = latencies[0]
	slowest = latencies[len(latencies)-1]

	var total time.Duration
	for _, d := range latencies {
		total += d
	}
	avg = total / time.Duration(len(latencies))
	p95 = latencies[int(0.95*float64(len(latencies)))]
	p99 = latencies[int(0.99*float64(len(latencies)))]
	return
}

// setupAuctions creates the auctions, joins every bidder to each and adds watchers
func setupAuctions(b *testing.B, s LoadScenario) *bidding.BiddingService {
	b.Helper()
	_, hub, svc := newService()
	for a := 0; a < s.NumAuctions; a++ {
		auctionID := fmt.Sprintf("auction_%d", a)
		joinBidders(b, svc, auctionID, s.NumBidders)
		for w := 0; w < s.WatchersEach; w++ {
			hub.Subscribe(auctionID, discardSub{id: fmt.Sprintf("watcher_%d_%d", a, w)})
		}
	}
	return svc
}

// Benchmark_Load_AuctionSystem runs multiple scenarios
func Benchmark_Load_AuctionSystem(b *testing.B) {
	scenarios := []LoadScenario{
		{"Low-Contention-WriteHeavy", 20, 200, 0, 50, 5, false},
		{"High-Contention-WriteHeavy", 200, 5, 0, 20, 50, false},
		{"Mixed-Workload", 100, 50, 7, 30, 10, false},
		{"ReadHeavy", 50, 50, 9, 20, 10, false},
		{"Edge-Case-SingleAuction", 100, 1, 5, 10, 200, false},
		{"Peak-Burst", 200, 20, 0, 20, 50, true},
	}

	for _, s := range scenarios {
		s := s
		b.Run(s.Name, func(b *testing.B) {
			runParallelScenario(b, s)
		})
	}
}

func runParallelScenario(b *testing.B, s LoadScenario) {
	b.ReportAllocs()

	svc := setupAuctions(b, s)

	var totalOps, acceptedBids, rejectedBids, totalReads int64
	lastBid := make([]int64, s.NumAuctions)
	metrics := &OperationMetrics{}

	b.ResetTimer()
	start := time.Now()

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

		for pb.Next() {
			auctionIndex := rnd.Intn(s.NumAuctions)
			auctionID := fmt.Sprintf("auction_%d", auctionIndex)

			opStart := time.Now()
			if rnd.Intn(10) < s.ReadRatio {
				if _, err := svc.GetAuction(auctionID); err != nil {
					b.Logf("ignored read error: %v", err)
				}
				atomic.AddInt64(&totalReads, 1)
			} else {
				amount := atomic.AddInt64(&lastBid[auctionIndex], int64(1+rnd.Intn(s.MaxBidRaise)))
				req := model.BidRequest{
					AuctionID: auctionID,
					BidderID:  fmt.Sprintf("user_%d", rnd.Intn(s.NumBidders)),
					Amount:    amount,
				}
				if _, err := svc.PlaceBid(req); err != nil {
					atomic.AddInt64(&rejectedBids, 1)
				} else {
					atomic.AddInt64(&acceptedBids, 1)
				}
			}

			metrics.Record(time.Since(opStart))
			atomic.AddInt64(&totalOps, 1)

			if !s.Burst {
				time.Sleep(time.Millisecond)
			}
		}
	})

	elapsed := time.Since(start)
	throughput := float64(totalOps) / elapsed.Seconds()
	fastest, slowest, avg, p95, p99 := metrics.Stats()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	b.Logf(
		"Scenario: %s | Auctions: %d | Total Ops: %d | Accepted Bids: %d | Rejected Bids: %d | Reads: %d | Elapsed: %s | Throughput: %.2f ops/sec | Latency(us) min: %.2f avg: %.2f max: %.2f p95: %.2f p99: %.2f | Memory Alloc: %.2f MB",
		s.Name, s.NumAuctions, totalOps, acceptedBids, rejectedBids, totalReads, elapsed,
		throughput,
		float64(fastest.Microseconds()), float64(avg.Microseconds()), float64(slowest.Microseconds()),
		float64(p95.Microseconds()), float64(p99.Microseconds()),
		float64(mem.Alloc)/1024/1024,
	)
}
