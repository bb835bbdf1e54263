package config

import (
	"strings"

	"github.com/downfa11-org/go-eventfs/pkg/layout"
	"github.com/downfa11-org/go-eventfs/util"
)

func (cfg *Config) Normalize() {
	if strings.TrimSpace(cfg.MemoryPath) == "" {
		cfg.MemoryPath = "eventfs.dat"
	}
	if strings.TrimSpace(cfg.StreamName) == "" {
		cfg.StreamName = "default-stream"
	}

	if cfg.FreeSlotCapacity == 0 {
		cfg.FreeSlotCapacity = layout.DefaultFreeSlotCapacity
	}
	if cfg.IndexSlots == 0 {
		cfg.IndexSlots = layout.DefaultIndexSlots
	}

	if cfg.Compression == "" {
		cfg.Compression = "none"
	}
	switch cfg.Compression {
	case "none", "gzip", "snappy", "lz4":
	default:
		util.Warn("Invalid compression '%s', defaulting to 'none'", cfg.Compression)
		cfg.Compression = "none"
	}

	if cfg.ExporterPort <= 0 {
		cfg.ExporterPort = 9100
	}
}

// Layout builds the zone geometry the config describes.
func (cfg *Config) Layout() *layout.Layout {
	return layout.New(layout.Geometry{
		FreeSlotCapacity: cfg.FreeSlotCapacity,
		IndexSlots:       cfg.IndexSlots,
	})
}
