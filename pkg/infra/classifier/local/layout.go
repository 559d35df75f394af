package local

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	configFile       = "config.json"
	vocabFile        = "vocab.txt"
	pytorchWeights   = "pytorch_model.bin"
	safetensors      = "model.safetensors"
	convertedWeights = "spago_model.bin"
)

// CheckModelDir verifies that dir holds a sequence classification checkpoint in the
// layout published on the Hugging Face hub.
func CheckModelDir(dir string) error {
	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", configFile, err)
	}
	var cfg struct {
		ID2Label map[string]string `json:"id2label"`
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", configFile, err)
	}
	if len(cfg.ID2Label) == 0 {
		return fmt.Errorf("%s has no id2label, not a classification model", configFile)
	}

	if !exists(filepath.Join(dir, vocabFile)) {
		return fmt.Errorf("missing %s", vocabFile)
	}

	switch {
	case exists(filepath.Join(dir, convertedWeights)), exists(filepath.Join(dir, pytorchWeights)):
		return nil
	case exists(filepath.Join(dir, safetensors)):
		return errors.New("safetensors weights are not supported, provide pytorch_model.bin")
	default:
		return fmt.Errorf("missing model weights (%s)", pytorchWeights)
	}
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
