package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyEmission    = "emission"
	keyAdvisor     = "advisor"
	keyForecast    = "forecast"
	keyLeaderboard = "leaderboard"
	keyWindows     = "windows"
	keyGoal        = "goal"
	keyStore       = "store"
	keyServer      = "server"
	keyOutput      = "output"
	keyLogging     = "logging"
)

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay are left unchanged. Unknown
// keys are ignored.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection decodes one overlay section into a fresh zero value and
// assigns it, so the section is replaced rather than merged.
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keyEmission:
		return decodeInto(data, &target.Emission)
	case keyAdvisor:
		return decodeInto(data, &target.Advisor)
	case keyForecast:
		return decodeInto(data, &target.Forecast)
	case keyLeaderboard:
		return decodeInto(data, &target.Leaderboard)
	case keyWindows:
		return decodeInto(data, &target.Windows)
	case keyGoal:
		return decodeInto(data, &target.Goal)
	case keyStore:
		return decodeInto(data, &target.Store)
	case keyServer:
		return decodeInto(data, &target.Server)
	case keyOutput:
		return decodeInto(data, &target.Output)
	case keyLogging:
		return decodeInto(data, &target.Logging)
	default:
		return nil
	}
}

func decodeInto[T any](data []byte, dst *T) error {
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return err
	}
	*dst = v
	return nil
}
