// Package test loads golden JSON5 test vectors describing concrete
// encode/decode scenarios (spelled out the way a human would transcribe
// the wire format's worked examples) and runs them against the runtime
// package.
package test

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aeolun/json5"
)

// VectorSuite is a named group of related vectors loaded from one JSON5
// file, mirroring one concrete scenario family from the wire format's
// worked examples (e.g. "varint minimality" or "bitset framing size").
type VectorSuite struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Vectors     []Vector `json:"vectors"`
}

// Vector is one concrete (value, encoding) pair, or an expected-failure
// case when ShouldError is set. TestScalarVectors replays every vector
// with FloatNormal, no size limit and an expected success; it does not
// read FloatMode, SizeLimit or ShouldError.
type Vector struct {
	Description string      `json:"description"`
	Type        string      `json:"type"` // "u32", "u64", "string" or "char" (the types TestScalarVectors replays)
	FloatMode   string      `json:"float_mode,omitempty"` // "normal" (default), "f16", "f32", "halve_precision"
	SizeLimit   *uint64     `json:"size_limit,omitempty"` // nil means unbounded
	Value       interface{} `json:"value"`
	HexBytes    string      `json:"bytes"` // hex-encoded wire bytes, e.g. "7f" or "80 01"
	ShouldError string      `json:"should_error,omitempty"` // "io" | "invalid_encoding" | "size_limit"
}

// Bytes decodes HexBytes (whitespace between byte pairs is ignored, so
// vectors can be written "80 01" for readability) into a byte slice.
func (v Vector) Bytes() ([]byte, error) {
	compact := strings.ReplaceAll(v.HexBytes, " ", "")
	return hex.DecodeString(compact)
}

// LoadVectorSuite loads a single .vectors.json5 file.
func LoadVectorSuite(path string) (*VectorSuite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vector file %s: %w", path, err)
	}
	var suite VectorSuite
	if err := json5.Unmarshal(data, &suite); err != nil {
		return nil, fmt.Errorf("failed to parse vector file %s: %w", path, err)
	}
	for i := range suite.Vectors {
		suite.Vectors[i].Value = normalizeBigInts(suite.Vectors[i].Value)
	}
	return &suite, nil
}

// LoadAllVectorSuites loads every *.vectors.json5 file under rootDir.
func LoadAllVectorSuites(rootDir string) ([]*VectorSuite, error) {
	var suites []*VectorSuite
	err := filepath.Walk(rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".vectors.json5") {
			return nil
		}
		suite, err := LoadVectorSuite(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		suites = append(suites, suite)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return suites, nil
}

// normalizeBigInts recursively converts BigInt-style JSON5 strings (a
// trailing "n", e.g. "18446744073709551615n") into Go int64/uint64
// values, since u64 values above 2^53 cannot round-trip through a JSON
// number without this convention.
func normalizeBigInts(val interface{}) interface{} {
	switch v := val.(type) {
	case string:
		if !strings.HasSuffix(v, "n") {
			return v
		}
		numStr := strings.TrimSuffix(v, "n")
		if n, err := strconv.ParseInt(numStr, 10, 64); err == nil {
			return n
		}
		if n, err := strconv.ParseUint(numStr, 10, 64); err == nil {
			return n
		}
		return v
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, e := range v {
			out[k] = normalizeBigInts(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = normalizeBigInts(e)
		}
		return out
	default:
		return v
	}
}
