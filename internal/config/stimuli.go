package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ashureev/odorcolor/internal/domain"
	"gopkg.in/yaml.v3"
)

// StimuliFile is the YAML document naming the rated stimuli:
//
//	stimuli:
//	  - label: Lavender
//	  - label: Smoke
//	  - label: Citrus
type StimuliFile struct {
	Stimuli []Stimulus `yaml:"stimuli"`
}

// Stimulus is one rated item.
type Stimulus struct {
	Label string `yaml:"label"`
}

// LoadStimuli reads exactly domain.SlotCount labels from a YAML file.
func LoadStimuli(path string) ([domain.SlotCount]string, error) {
	var labels [domain.SlotCount]string

	data, err := os.ReadFile(path)
	if err != nil {
		return labels, fmt.Errorf("read stimuli file: %w", err)
	}
	var doc StimuliFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return labels, fmt.Errorf("parse stimuli file: %w", err)
	}
	if len(doc.Stimuli) != domain.SlotCount {
		return labels, fmt.Errorf("stimuli file lists %d stimuli, want %d", len(doc.Stimuli), domain.SlotCount)
	}
	for i, s := range doc.Stimuli {
		label := strings.TrimSpace(s.Label)
		if label == "" {
			return labels, fmt.Errorf("stimulus %d has no label", i+1)
		}
		labels[i] = label
	}
	return labels, nil
}
