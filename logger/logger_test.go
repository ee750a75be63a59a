package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SKIRMISH_LOG_LEVEL", "debug")
	t.Setenv("SKIRMISH_LOG_FORMAT", "json")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Level != "debug" || cfg.Format != "json" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		level logrus.Level
	}{
		{name: "debug", cfg: Config{Level: "debug", Format: "text"}, level: logrus.DebugLevel},
		{name: "unknown level falls back to info", cfg: Config{Level: "loud"}, level: logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.cfg, &bytes.Buffer{})
			if log.GetLevel() != tt.level {
				t.Fatalf("level = %v, want %v", log.GetLevel(), tt.level)
			}
		})
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json"}, &buf)
	log.WithField("entity", "1v0").Info("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not json: %v: %q", err, buf.String())
	}
	if line["msg"] != "hello" || line["entity"] != "1v0" {
		t.Fatalf("unexpected line: %v", line)
	}
}
