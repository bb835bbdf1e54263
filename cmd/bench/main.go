package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/downfa11-org/go-eventfs/pkg/bench"
	"github.com/downfa11-org/go-eventfs/pkg/eventlog"
	"github.com/downfa11-org/go-eventfs/pkg/layout"
	"github.com/downfa11-org/go-eventfs/pkg/memory"
	"github.com/downfa11-org/go-eventfs/pkg/metrics"
	"github.com/downfa11-org/go-eventfs/util"
)

func main() {
	memoryPath := flag.String("memory-path", "eventfs-bench.dat", "path of the backing region file")
	streamName := flag.String("stream-name", "bench-stream", "event stream name")
	messages := flag.Int("messages", 10000, "number of messages to append")
	payloadSize := flag.Int("payload-size", 256, "payload size in bytes")
	indexSlots := flag.Uint64("index-slots", 0, "index slots (0 = derive from workload)")
	compression := flag.String("compression", "none", "payload compression (none, gzip, snappy, lz4)")
	exporterPort := flag.Int("exporter-port", 0, "Prometheus exporter port (0 = disabled)")
	flag.Parse()

	slots := *indexSlots
	if slots == 0 {
		perMessage := layout.BlockCount(uint64(*payloadSize))
		if perMessage == 0 {
			perMessage = 1
		}
		slots = uint64(*messages) * perMessage
	}

	l := layout.New(layout.Geometry{IndexSlots: slots})
	region, err := memory.OpenFile(*memoryPath, l.Size())
	if err != nil {
		fmt.Println("❌ Failed to open region:", err)
		os.Exit(1)
	}
	defer func() {
		if err := region.Close(); err != nil {
			util.Error("failed to close region: %v", err)
		}
	}()

	engine, err := eventlog.GetOrCreate(region, *streamName, eventlog.Options{
		Layout:      l,
		Compression: *compression,
	})
	if err != nil {
		fmt.Println("❌ Failed to open event stream:", err)
		os.Exit(1)
	}

	if *exporterPort > 0 {
		metrics.StartMetricsServer(*exporterPort)
	}

	runner := bench.NewBenchmarkRunner(engine, *messages, *payloadSize)
	if err := runner.Run(); err != nil {
		fmt.Println("❌ Benchmark failed:", err)
		os.Exit(1)
	}
}
