// Copyright 2025 objfiledb Authors
// SPDX-License-Identifier: Apache-2.0

package types

import (
	"fmt"
	"strings"
)

// GameVersion selects the configuration profile of the program image being
// processed. A few passes special-case individual objects per profile.
type GameVersion int

const (
	GameJak1 GameVersion = 1
	GameJak2 GameVersion = 2
)

func (v GameVersion) IsValid() bool {
	return v == GameJak1 || v == GameJak2
}

func (v GameVersion) String() string {
	return fmt.Sprintf("jak%d", int(v))
}

// BlobIndexKind selects where canonical object bytes are kept.
type BlobIndexKind string

const (
	BlobIndexMemory  BlobIndexKind = "memory"
	BlobIndexLevelDB BlobIndexKind = "leveldb"
)

// Config holds everything the decompiler commands read from flags, env and
// the config file.
type Config struct {
	GameVersion GameVersion `mapstructure:"game_version" json:"game_version"`
	DgoNames    []string    `mapstructure:"dgo_names" json:"dgo_names"`

	FindBasicBlocks bool `mapstructure:"find_basic_blocks" json:"find_basic_blocks"`

	WriteHexdump                       bool `mapstructure:"write_hexdump" json:"write_hexdump"`
	WriteHexdumpOnV3Only               bool `mapstructure:"write_hexdump_on_v3_only" json:"write_hexdump_on_v3_only"`
	WriteDisassembly                   bool `mapstructure:"write_disassembly" json:"write_disassembly"`
	DisassembleObjectsWithoutFunctions bool `mapstructure:"disassemble_objects_without_functions" json:"disassemble_objects_without_functions"`
	WriteScripts                       bool `mapstructure:"write_scripts" json:"write_scripts"`

	// Workers > 1 runs per-object stage bodies in parallel. Stages stay
	// strictly sequential.
	Workers         int    `mapstructure:"workers" json:"workers"`
	DumpCompression string `mapstructure:"dump_compression" json:"dump_compression"`

	BlobIndex BlobIndexKind `mapstructure:"blob_index" json:"blob_index"`
	// BlobIndexPath is the LevelDB directory; empty means a scratch
	// directory removed on exit.
	BlobIndexPath string `mapstructure:"blob_index_path" json:"blob_index_path"`
}

// DefaultConfig returns the profile used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		GameVersion:     GameJak1,
		FindBasicBlocks: true,
		Workers:         1,
		BlobIndex:       BlobIndexMemory,
	}
}

// ConfigValidationError represents a configuration validation error
type ConfigValidationError struct {
	Field   string
	Message string
}

func (e ConfigValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigValidationResult contains the results of configuration validation
type ConfigValidationResult struct {
	Valid  bool
	Errors []ConfigValidationError
}

// AddError adds an error to the result
func (r *ConfigValidationResult) AddError(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, ConfigValidationError{Field: field, Message: message})
}

// Err folds the collected errors into one, or returns nil.
func (r *ConfigValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Validate checks field ranges. The dump compression name is checked by the
// caller, which owns the codec list.
func (c *Config) Validate() *ConfigValidationResult {
	result := &ConfigValidationResult{Valid: true}

	if !c.GameVersion.IsValid() {
		result.AddError("game_version", fmt.Sprintf("unsupported game version %d", c.GameVersion))
	}
	if c.Workers < 1 {
		result.AddError("workers", "must be at least 1")
	}
	switch c.BlobIndex {
	case BlobIndexMemory, BlobIndexLevelDB:
	default:
		result.AddError("blob_index", fmt.Sprintf("unknown index kind %q", c.BlobIndex))
	}
	if c.WriteHexdumpOnV3Only && !c.WriteHexdump {
		result.AddError("write_hexdump_on_v3_only", "requires write_hexdump")
	}

	return result
}
