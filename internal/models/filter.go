package models

import (
	json "github.com/goccy/go-json"
)

// SeverityScores holds the per-axis deficiency strengths, each in [0,1].
type SeverityScores struct {
	Protanopia   float64 `json:"protanopia"`
	Deuteranopia float64 `json:"deuteranopia"`
	Tritanopia   float64 `json:"tritanopia"`
}

// FilterParams describes one color-correction transform. Correction
// strengths default to 0, multiplicative adjustments default to 1, so a
// zero-effort value renders as a no-op. Values are never mutated in
// place; a new selection produces a new value.
type FilterParams struct {
	ProtanopiaCorrection   float64  `json:"protanopia_correction"`
	DeuteranopiaCorrection float64  `json:"deuteranopia_correction"`
	TritanopiaCorrection   float64  `json:"tritanopia_correction"`
	BrightnessAdjustment   float64  `json:"brightness_adjustment"`
	ContrastAdjustment     float64  `json:"contrast_adjustment"`
	SaturationAdjustment   float64  `json:"saturation_adjustment"`
	HueRotation            *float64 `json:"hue_rotation,omitempty"`
	SepiaAmount            *float64 `json:"sepia_amount,omitempty"`
}

// NeutralFilterParams returns the identity transform.
func NeutralFilterParams() FilterParams {
	return FilterParams{
		BrightnessAdjustment: 1,
		ContrastAdjustment:   1,
		SaturationAdjustment: 1,
	}
}

type filterParamsWire struct {
	ProtanopiaCorrection   *float64 `json:"protanopia_correction"`
	DeuteranopiaCorrection *float64 `json:"deuteranopia_correction"`
	TritanopiaCorrection   *float64 `json:"tritanopia_correction"`
	BrightnessAdjustment   *float64 `json:"brightness_adjustment"`
	ContrastAdjustment     *float64 `json:"contrast_adjustment"`
	SaturationAdjustment   *float64 `json:"saturation_adjustment"`
	HueRotation            *float64 `json:"hue_rotation"`
	SepiaAmount            *float64 `json:"sepia_amount"`
}

// UnmarshalJSON fills absent fields with their neutral values instead of
// Go zero values, so a partially populated record stays a valid transform.
func (p *FilterParams) UnmarshalJSON(data []byte) error {
	var wire filterParamsWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*p = NeutralFilterParams()
	if wire.ProtanopiaCorrection != nil {
		p.ProtanopiaCorrection = *wire.ProtanopiaCorrection
	}
	if wire.DeuteranopiaCorrection != nil {
		p.DeuteranopiaCorrection = *wire.DeuteranopiaCorrection
	}
	if wire.TritanopiaCorrection != nil {
		p.TritanopiaCorrection = *wire.TritanopiaCorrection
	}
	if wire.BrightnessAdjustment != nil {
		p.BrightnessAdjustment = *wire.BrightnessAdjustment
	}
	if wire.ContrastAdjustment != nil {
		p.ContrastAdjustment = *wire.ContrastAdjustment
	}
	if wire.SaturationAdjustment != nil {
		p.SaturationAdjustment = *wire.SaturationAdjustment
	}
	p.HueRotation = wire.HueRotation
	p.SepiaAmount = wire.SepiaAmount
	return nil
}

// IsNeutral reports whether the transform is the identity.
func (p *FilterParams) IsNeutral() bool {
	return p.ProtanopiaCorrection <= 0 &&
		p.DeuteranopiaCorrection <= 0 &&
		p.TritanopiaCorrection <= 0 &&
		p.BrightnessAdjustment == 1 &&
		p.ContrastAdjustment == 1 &&
		p.SaturationAdjustment == 1 &&
		(p.HueRotation == nil || *p.HueRotation == 0) &&
		(p.SepiaAmount == nil || *p.SepiaAmount == 0)
}

// Float64Ptr is a convenience for the optional FilterParams fields.
func Float64Ptr(v float64) *float64 {
	return &v
}
