package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for merge.
const (
	keyReference = "reference"
	keyScoring   = "scoring"
	keyImpact    = "impact"
	keyRoadmap   = "roadmap"
	keyNarrative = "narrative"
	keyServer    = "server"
	keyOutput    = "output"
	keyLogging   = "logging"
)

// knownTopLevelKeys lists the YAML keys that correspond to Config fields.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyReference: true,
	keyScoring:   true,
	keyImpact:    true,
	keyRoadmap:   true,
	keyNarrative: true,
	keyServer:    true,
	keyOutput:    true,
	keyLogging:   true,
}

// MergeYAML loads a YAML file and merges each known top-level section onto
// target. Fields set in an overlay section replace the target's fields;
// fields the overlay omits keep their current value. Sections absent from
// the overlay are left unchanged.
func MergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in MergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file.
	if len(overlay) == 0 {
		return nil
	}

	for key, node := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}
		if err = decodeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// decodeSection decodes node onto a copy of the matching section and stores
// it back only when decoding succeeds, so a bad section never leaves target
// half-written.
func decodeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyReference:
		return decodeInto(node, &target.Reference)
	case keyScoring:
		return decodeInto(node, &target.Scoring)
	case keyImpact:
		return decodeInto(node, &target.Impact)
	case keyRoadmap:
		return decodeInto(node, &target.Roadmap)
	case keyNarrative:
		return decodeInto(node, &target.Narrative)
	case keyServer:
		return decodeInto(node, &target.Server)
	case keyOutput:
		return decodeInto(node, &target.Output)
	case keyLogging:
		return decodeInto(node, &target.Logging)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

func decodeInto[T any](node *yaml.Node, dst *T) error {
	v := *dst
	if err := node.Decode(&v); err != nil {
		return err
	}
	*dst = v
	return nil
}
