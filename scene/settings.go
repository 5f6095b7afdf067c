// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"encoding/json"
	"fmt"
)

// LightSettings is the persisted light direction.
type LightSettings struct {
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
}

// EffectSettings is the persisted active-effect record. Params values are
// float64 or bool, matching the effect parameter contract.
type EffectSettings struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// Settings is the serializable session record: light direction, material,
// and optionally the active effect. Re-importing an exported record
// reproduces the identical visual state.
type Settings struct {
	Light    LightSettings   `json:"light"`
	Material Material        `json:"material"`
	Effect   *EffectSettings `json:"effect,omitempty"`
}

// Encode serializes the record to JSON.
func (s Settings) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("scene: encode settings: %w", err)
	}
	return data, nil
}

// DecodeSettings parses a settings record. JSON numbers decode to float64
// and booleans to bool, so effect parameters round-trip losslessly through
// the effect parameter contract.
func DecodeSettings(data []byte) (Settings, error) {
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("scene: decode settings: %w", err)
	}
	return s, nil
}
