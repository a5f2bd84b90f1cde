package model

import (
	"encoding/json"
	"fmt"
)

type Variable struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Secure bool   `json:"secure"`
}

// DisplayValue masks secure values.
func (v Variable) DisplayValue() string {
	if v.Secure {
		return "****"
	}
	return v.Value
}

// TriggerWithOptionsInfo is everything needed to trigger a pipeline with
// chosen revisions and variables.
type TriggerWithOptionsInfo struct {
	Variables []Variable `json:"variables"`
	Materials []Material `json:"materials"`
}

func FromJSON(data []byte) (*TriggerWithOptionsInfo, error) {
	var info TriggerWithOptionsInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse trigger options: %w", err)
	}
	return &info, nil
}

// MaterialByFingerprint returns a pointer to the material with the given
// fingerprint, or nil.
func (i *TriggerWithOptionsInfo) MaterialByFingerprint(fingerprint string) *Material {
	for idx := range i.Materials {
		if i.Materials[idx].Fingerprint == fingerprint {
			return &i.Materials[idx]
		}
	}
	return nil
}

type ScheduleMaterial struct {
	Fingerprint string `json:"fingerprint"`
	Revision    string `json:"revision"`
}

type ScheduleVariable struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Secure bool   `json:"secure"`
}

// ScheduleRequest is the body of the pipeline schedule endpoint.
type ScheduleRequest struct {
	Materials                       []ScheduleMaterial `json:"materials,omitempty"`
	EnvironmentVariables            []ScheduleVariable `json:"environment_variables,omitempty"`
	UpdateMaterialsBeforeScheduling bool               `json:"update_materials_before_scheduling"`
}

// Fixture is the offline input format: trigger options plus the commits
// available for each material, keyed by fingerprint.
type Fixture struct {
	TriggerWithOptionsInfo
	Commits map[string][]MaterialRevision `json:"commits"`
}

func FixtureFromJSON(data []byte) (*Fixture, error) {
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}
