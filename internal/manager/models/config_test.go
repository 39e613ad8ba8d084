package models

import (
	"errors"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		expected error
	}{
		{
			name:     "chunk size too small",
			mutate:   func(c *Config) { c.ChunkSizeTokens = 99 },
			expected: ErrChunkSizeOutOfRange,
		},
		{
			name:     "chunk size too large",
			mutate:   func(c *Config) { c.ChunkSizeTokens = 5001 },
			expected: ErrChunkSizeOutOfRange,
		},
		{
			name:     "overlap negative",
			mutate:   func(c *Config) { c.OverlapPercent = -1 },
			expected: ErrOverlapPercentOutOfRange,
		},
		{
			name:     "overlap above half",
			mutate:   func(c *Config) { c.OverlapPercent = 51 },
			expected: ErrOverlapPercentOutOfRange,
		},
		{
			name:     "batch size zero",
			mutate:   func(c *Config) { c.BatchSize = 0 },
			expected: ErrBatchSizeOutOfRange,
		},
		{
			name:     "batch size too large",
			mutate:   func(c *Config) { c.BatchSize = 1001 },
			expected: ErrBatchSizeOutOfRange,
		},
		{
			name:     "qps too low",
			mutate:   func(c *Config) { c.QPS = 0.05 },
			expected: ErrQPSOutOfRange,
		},
		{
			name:     "qps too high",
			mutate:   func(c *Config) { c.QPS = 101 },
			expected: ErrQPSOutOfRange,
		},
		{
			name:     "chunk duration zero",
			mutate:   func(c *Config) { c.ChunkDurationSeconds = 0 },
			expected: ErrChunkDurationNotPositive,
		},
		{
			name:     "max chunk chars zero",
			mutate:   func(c *Config) { c.MaxChunkChars = 0 },
			expected: ErrMaxChunkCharsNotPositive,
		},
		{
			name:     "overlap duration negative",
			mutate:   func(c *Config) { c.OverlapDurationSeconds = -1 },
			expected: ErrOverlapDurationNegative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestConfigBoundaryValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSizeTokens = 100
	cfg.OverlapPercent = 0
	cfg.BatchSize = 1
	cfg.QPS = 0.1
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected lower bounds to validate, got %v", err)
	}

	cfg = DefaultConfig()
	cfg.ChunkSizeTokens = 5000
	cfg.OverlapPercent = 50
	cfg.BatchSize = 1000
	cfg.QPS = 100
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected upper bounds to validate, got %v", err)
	}
}

func TestConfigDerivedBudgets(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.TargetChars() != 4000 {
		t.Errorf("Expected 4000 target chars for 1000 tokens, got %d", cfg.TargetChars())
	}
	if cfg.OverlapChars() != 800 {
		t.Errorf("Expected 800 overlap chars for 20%%, got %d", cfg.OverlapChars())
	}

	cfg.OverlapPercent = 0
	if cfg.OverlapChars() != 0 {
		t.Errorf("Expected 0 overlap chars for 0%%, got %d", cfg.OverlapChars())
	}
}
