package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	prometheus.MustRegister(MessagesAppended, MessagesRead, BytesAppended, BytesRead,
		AppendLatencyHist, TopicHeight, SnapshotWrites, ReadErrors)
}

func StartMetricsServer(port int) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", port)
		fmt.Println("[METRICS] Prometheus exporter listening on", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			fmt.Printf("[METRICS] Failed to start metrics server: %v\n", err)
		}
	}()
}

// PushAppend updates the append-side collectors for one stored message.
func PushAppend(bytes int, elapsedSeconds float64, height uint64) {
	MessagesAppended.Inc()
	BytesAppended.Add(float64(bytes))
	AppendLatencyHist.Observe(elapsedSeconds)
	TopicHeight.Set(float64(height))
}

// PushRead updates the read-side collectors for n retrieved messages.
func PushRead(n int, bytes int) {
	MessagesRead.Add(float64(n))
	BytesRead.Add(float64(bytes))
}

func PushReadError() {
	ReadErrors.Inc()
}

func PushSnapshot() {
	SnapshotWrites.Inc()
}
