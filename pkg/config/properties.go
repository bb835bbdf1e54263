package config

import (
	"encoding/json"
	"flag"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/downfa11-org/go-eventfs/util"
)

// Config holds every engine and host knob. Values come from flags, an
// optional YAML/JSON file, and Normalize defaults, in that precedence.
type Config struct {
	// Stream identity & backing region
	MemoryPath string `yaml:"memory_path" json:"memory.path"`
	StreamName string `yaml:"stream_name" json:"stream.name"`

	// Layout geometry; must match the geometry the region was formatted with
	FreeSlotCapacity uint64 `yaml:"free_slot_capacity" json:"free.slot.capacity"`
	IndexSlots       uint64 `yaml:"index_slots" json:"index.slots"`

	// Payload handling
	Compression string `yaml:"compression" json:"compression"`

	// Observability
	EnableExporter bool          `yaml:"enable_exporter" json:"enable.exporter"`
	ExporterPort   int           `yaml:"exporter_port" json:"exporter.port"`
	LogLevel       util.LogLevel `yaml:"log_level" json:"log_level"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	configPath := flag.String("config", "", "Path to YAML/JSON config file")
	memoryPathStr := flag.String("memory-path", "eventfs.dat", "Path of the backing region file")
	streamNameStr := flag.String("stream-name", "default-stream", "Event stream name written into a fresh header")
	freeSlotStr := flag.String("free-slot-capacity", "1048576", "Snapshot slot capacity in bytes")
	indexSlotsStr := flag.String("index-slots", "65536", "Number of index slots (identifier space)")
	compressionStr := flag.String("compression", "none", "Payload compression (none, gzip, snappy, lz4)")
	exporterStr := flag.String("exporter", "false", "Enable Prometheus exporter")
	exporterPortStr := flag.String("exporter-port", "9100", "Exporter port")
	logLevelStr := flag.String("log-level", "info", "Log Level (debug, info, warn, error)")

	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" && *configPath == "" {
		*configPath = envPath
	}

	flag.Parse()

	applyDefaults(cfg, memoryPathStr, streamNameStr, freeSlotStr, indexSlotsStr,
		compressionStr, exporterStr, exporterPortStr, logLevelStr)

	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			return nil, err
		}

		if strings.HasSuffix(*configPath, ".json") {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	applyExplicitFlags(cfg, memoryPathStr, streamNameStr, freeSlotStr, indexSlotsStr,
		compressionStr, exporterStr, exporterPortStr, logLevelStr)

	cfg.Normalize()
	util.SetLevel(cfg.LogLevel)

	return cfg, nil
}

func applyDefaults(cfg *Config, memoryPathStr, streamNameStr, freeSlotStr, indexSlotsStr,
	compressionStr, exporterStr, exporterPortStr, logLevelStr *string) {

	cfg.MemoryPath = *memoryPathStr
	cfg.StreamName = *streamNameStr
	if freeSlot, err := strconv.ParseUint(*freeSlotStr, 10, 64); err == nil {
		cfg.FreeSlotCapacity = freeSlot
	}
	if indexSlots, err := strconv.ParseUint(*indexSlotsStr, 10, 64); err == nil {
		cfg.IndexSlots = indexSlots
	}
	cfg.Compression = *compressionStr
	cfg.EnableExporter = util.ParseBool(*exporterStr, false)
	cfg.ExporterPort = util.ParseInt(*exporterPortStr, 9100)
	cfg.LogLevel = parseLogLevel(*logLevelStr)
}

func applyExplicitFlags(cfg *Config, memoryPathStr, streamNameStr, freeSlotStr, indexSlotsStr,
	compressionStr, exporterStr, exporterPortStr, logLevelStr *string) {

	if *memoryPathStr != "eventfs.dat" {
		cfg.MemoryPath = *memoryPathStr
	}
	if *streamNameStr != "default-stream" {
		cfg.StreamName = *streamNameStr
	}
	if *freeSlotStr != "1048576" {
		if freeSlot, err := strconv.ParseUint(*freeSlotStr, 10, 64); err == nil {
			cfg.FreeSlotCapacity = freeSlot
		}
	}
	if *indexSlotsStr != "65536" {
		if indexSlots, err := strconv.ParseUint(*indexSlotsStr, 10, 64); err == nil {
			cfg.IndexSlots = indexSlots
		}
	}
	if *compressionStr != "none" {
		cfg.Compression = *compressionStr
	}
	if *exporterStr != "false" {
		if exporter, err := strconv.ParseBool(*exporterStr); err == nil {
			cfg.EnableExporter = exporter
		}
	}
	if *exporterPortStr != "9100" {
		if exporterPort, err := strconv.Atoi(*exporterPortStr); err == nil {
			cfg.ExporterPort = exporterPort
		}
	}
	if *logLevelStr != "info" {
		cfg.LogLevel = parseLogLevel(*logLevelStr)
	}
}

func parseLogLevel(s string) util.LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return util.LogLevelDebug
	case "info":
		return util.LogLevelInfo
	case "warn", "warning":
		return util.LogLevelWarn
	case "error":
		return util.LogLevelError
	default:
		return util.LogLevelInfo
	}
}
