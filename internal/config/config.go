// Package config loads puzzle definitions from YAML or JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"math"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/watercap"
	"github.com/aretw0/watercap/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned when a puzzle file contains a key the loader does not understand.
var ErrUnknownKey = errors.New("unknown key in puzzle file")

// BucketFile is one bucket entry of a puzzle file.
type BucketFile struct {
	Capacity float64 `json:"capacity" yaml:"capacity" mapstructure:"capacity"`
	Quantity float64 `json:"quantity" yaml:"quantity" mapstructure:"quantity"`
}

// TargetFile is the target entry of a puzzle file.
type TargetFile struct {
	Bucket   int     `json:"bucket" yaml:"bucket" mapstructure:"bucket"`
	Quantity float64 `json:"quantity" yaml:"quantity" mapstructure:"quantity"`
}

// PuzzleFile is the on-disk representation of a puzzle and its solver settings.
//
//	max_steps: 5
//	strict: true
//	buckets:
//	  - {capacity: 10, quantity: 0}
//	  - {capacity: 9}
//	  - {capacity: 7, quantity: 5}
//	target: {bucket: 1, quantity: 4}
type PuzzleFile struct {
	MaxSteps int          `json:"max_steps" yaml:"max_steps" mapstructure:"max_steps"`
	Strict   bool         `json:"strict" yaml:"strict" mapstructure:"strict"`
	Halving  bool         `json:"halving" yaml:"halving" mapstructure:"halving"`
	Memo     bool         `json:"memo" yaml:"memo" mapstructure:"memo"`
	Buckets  []BucketFile `json:"buckets" yaml:"buckets" mapstructure:"buckets"`
	Target   TargetFile   `json:"target" yaml:"target" mapstructure:"target"`
}

// Load reads a puzzle file. The format is chosen by extension: .json is JSON, anything else YAML.
func Load(path string) (*PuzzleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read puzzle file: %w", err)
	}

	format := "yaml"
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		format = "json"
	}

	pf, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return pf, nil
}

// Read parses a puzzle from r in the given format ("yaml" or "json").
func Read(r io.Reader, format string) (*PuzzleFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read puzzle: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes raw puzzle data. Values are weakly typed, so "10", 10 and 10.0 all decode as a capacity.
func Parse(data []byte, format string) (*PuzzleFile, error) {
	var raw map[string]any

	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse puzzle json: %w", err)
		}
	case "yaml", "yml", "":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse puzzle yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported puzzle format %q", format)
	}

	if raw == nil {
		return nil, fmt.Errorf("puzzle is empty")
	}

	var pf PuzzleFile
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &pf,
		Metadata:         &md,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		DecodeHook:       rejectFractionalInts,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode puzzle: %w", err)
	}
	if len(md.Unused) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(md.Unused, ", "))
	}

	return &pf, nil
}

// rejectFractionalInts stops weak typing from truncating 5.5 into an int field.
func rejectFractionalInts(from, to reflect.Type, data any) (any, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}
	var v float64
	switch from.Kind() {
	case reflect.Float32, reflect.Float64:
		v = reflect.ValueOf(data).Float()
	default:
		return data, nil
	}
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%v must be an integer", data)
	}
	return data, nil
}

// Puzzle converts the file into the domain model. No validation happens here.
func (pf *PuzzleFile) Puzzle() domain.Puzzle {
	buckets := make([]domain.Bucket, len(pf.Buckets))
	for i, b := range pf.Buckets {
		buckets[i] = domain.Bucket{Capacity: b.Capacity, Quantity: b.Quantity}
	}
	return domain.Puzzle{
		MaxSteps: pf.MaxSteps,
		Buckets:  buckets,
		Target:   domain.Target{Bucket: pf.Target.Bucket, Quantity: pf.Target.Quantity},
	}
}

// Options returns the solver options the file asks for.
func (pf *PuzzleFile) Options() []watercap.Option {
	opts := []watercap.Option{watercap.WithStrictCapacityCheck(pf.Strict)}
	if pf.Halving {
		opts = append(opts, watercap.WithHalving())
	}
	if pf.Memo {
		opts = append(opts, watercap.WithMemo())
	}
	return opts
}

// Encode renders the file back in the given format.
func (pf *PuzzleFile) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(pf)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(pf); err != nil {
			return err
		}
		return enc.Close()
	}
}

// FromPuzzle builds a file from a domain puzzle.
func FromPuzzle(p domain.Puzzle) *PuzzleFile {
	pf := &PuzzleFile{
		MaxSteps: p.MaxSteps,
		Buckets:  make([]BucketFile, len(p.Buckets)),
		Target:   TargetFile{Bucket: p.Target.Bucket, Quantity: p.Target.Quantity},
	}
	for i, b := range p.Buckets {
		pf.Buckets[i] = BucketFile{Capacity: b.Capacity, Quantity: b.Quantity}
	}
	return pf
}
