package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/downfa11-org/go-eventfs/pkg/config"
	"github.com/downfa11-org/go-eventfs/pkg/eventlog"
	"github.com/downfa11-org/go-eventfs/pkg/memory"
	"github.com/downfa11-org/go-eventfs/pkg/metrics"
	"github.com/downfa11-org/go-eventfs/pkg/registry"
	"github.com/downfa11-org/go-eventfs/util"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Println("❌ Failed to load config:", err)
		os.Exit(1)
	}

	l := cfg.Layout()
	region, err := memory.OpenFile(cfg.MemoryPath, l.Size())
	if err != nil {
		fmt.Println("❌ Failed to open region:", err)
		os.Exit(1)
	}
	defer func() {
		if err := region.Close(); err != nil {
			util.Error("failed to close region: %v", err)
		}
	}()

	engine, err := eventlog.GetOrCreate(region, cfg.StreamName, eventlog.Options{
		Layout:      l,
		Compression: cfg.Compression,
	})
	if err != nil {
		fmt.Println("❌ Failed to open event stream:", err)
		os.Exit(1)
	}

	if cfg.EnableExporter {
		metrics.StartMetricsServer(cfg.ExporterPort)
	}

	reg := registry.New()
	if err := reg.Load(engine); err != nil {
		util.Debug("no registry snapshot restored: %v", err)
	}

	session := newSession(engine, reg)
	fmt.Printf("🔹 Stream %q ready (session %s). Type HELP for commands.\n", engine.Header().EventStreamName, session.id)
	fmt.Println("")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(line), "EXIT") {
			break
		}
		fmt.Println(session.handle(line))
	}
}

type session struct {
	id     uuid.UUID
	engine *eventlog.Engine
	reg    *registry.Registry
}

func newSession(engine *eventlog.Engine, reg *registry.Registry) *session {
	return &session{id: uuid.New(), engine: engine, reg: reg}
}
