package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"
)

// RepairJSON fixes common hand-editing mistakes (trailing commas, single quotes,
// unquoted keys, unclosed objects) before decoding.
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// ParseHJSON converts Hjson (comments, unquoted keys, optional commas) to standard JSON
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(hjsonData), &result); err != nil {
		return "", fmt.Errorf("hjson parse failed: %w", err)
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("json marshal failed: %w", err)
	}
	return string(jsonBytes), nil
}

// SmartParse decodes input into target, trying in order:
// 1. Standard JSON
// 2. Repaired JSON
// 3. Hjson
func SmartParse(input string, target interface{}) error {
	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), target); err == nil {
			return nil
		}
	}

	converted, err := ParseHJSON(input)
	if err != nil {
		return fmt.Errorf("all parsing strategies failed: %w", err)
	}
	if err := json.Unmarshal([]byte(converted), target); err != nil {
		return fmt.Errorf("all parsing strategies failed: %w", err)
	}
	return nil
}

// DecodeBytes picks a decoder from the file extension: .yaml/.yml, .hjson, anything else as JSON
func DecodeBytes(ext string, data []byte, target interface{}) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("yaml decode failed: %w", err)
		}
		return nil
	case ".hjson":
		converted, err := ParseHJSON(string(data))
		if err != nil {
			return err
		}
		if err := json.Unmarshal([]byte(converted), target); err != nil {
			return fmt.Errorf("hjson decode failed: %w", err)
		}
		return nil
	default:
		return SmartParse(string(data), target)
	}
}

// DecodeFile reads path and decodes it into target
func DecodeFile(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := DecodeBytes(filepath.Ext(path), data, target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
