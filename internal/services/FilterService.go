package services

import (
	"fmt"
	"strings"

	"cvdd/internal/models"
)

// Preset identifiers understood by the preview surface.
const (
	PresetNone         = "none"
	PresetSmartAI      = "smart_ai"
	PresetProtanopia   = "protanopia"
	PresetDeuteranopia = "deuteranopia"
	PresetTritanopia   = "tritanopia"
)

// Effect operation names, matching the CSS filter functions applied to
// the preview surface.
const (
	EffectHueRotate  = "hue-rotate"
	EffectSaturate   = "saturate"
	EffectContrast   = "contrast"
	EffectBrightness = "brightness"
	EffectSepia      = "sepia"
)

// Per-channel coefficients. Each correction axis maps to exactly one
// operation: protanopia to sepia, deuteranopia to saturation and
// tritanopia to hue rotation. Linear in the correction strength so the
// derived magnitudes stay continuous and monotone.
const (
	protanopiaSepiaCoeff  = 0.3
	deuteranopiaSatCoeff  = 0.5
	tritanopiaHueCoeff    = -10.0
	traditionalCorrCoeff  = 0.8
	traditionalBrightness = 0.2
	traditionalContrast   = 0.3
	traditionalSaturation = 0.4
)

// Effect is one named visual operation with its magnitude.
type Effect struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type FilterServiceInterface interface {
	DeriveEffects(params models.FilterParams) []Effect
	EffectsForPreset(preset string, params models.FilterParams, override *models.FilterParams) []Effect
	FilterString(effects []Effect) string
	PresetParams(preset string) (models.FilterParams, bool)
	TraditionalFilterParams(scores models.SeverityScores) models.FilterParams
}

// FilterService maps FilterParams to an ordered sequence of visual
// effects. Pure and total: no I/O, no hidden state, and out-of-range
// inputs clamp instead of failing.
type FilterService struct{}

func NewFilterService() FilterServiceInterface {
	return &FilterService{}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// DeriveEffects emits operations in a fixed order: hue-rotate,
// saturate, contrast, brightness, sepia. Each correction channel
// contributes only while its strength is above zero; the global
// adjustment fields contribute whenever they differ from identity. An
// explicitly supplied hue rotation replaces the tritanopia-derived one.
func (fs *FilterService) DeriveEffects(params models.FilterParams) []Effect {
	prot := clamp01(params.ProtanopiaCorrection)
	deut := clamp01(params.DeuteranopiaCorrection)
	trit := clamp01(params.TritanopiaCorrection)

	hue := 0.0
	if params.HueRotation != nil {
		hue = *params.HueRotation
	} else if trit > 0 {
		hue = trit * tritanopiaHueCoeff
	}

	saturate := nonNegative(params.SaturationAdjustment)
	if deut > 0 {
		saturate *= 1 + deut*deuteranopiaSatCoeff
	}

	contrast := nonNegative(params.ContrastAdjustment)
	brightness := nonNegative(params.BrightnessAdjustment)

	sepia := 0.0
	if params.SepiaAmount != nil {
		sepia = clamp01(*params.SepiaAmount)
	}
	if prot > 0 {
		sepia = clamp01(sepia + prot*protanopiaSepiaCoeff)
	}

	effects := make([]Effect, 0, 5)
	if hue != 0 {
		effects = append(effects, Effect{Name: EffectHueRotate, Amount: hue})
	}
	if saturate != 1 {
		effects = append(effects, Effect{Name: EffectSaturate, Amount: saturate})
	}
	if contrast != 1 {
		effects = append(effects, Effect{Name: EffectContrast, Amount: contrast})
	}
	if brightness != 1 {
		effects = append(effects, Effect{Name: EffectBrightness, Amount: brightness})
	}
	if sepia > 0 {
		effects = append(effects, Effect{Name: EffectSepia, Amount: sepia})
	}
	return effects
}

// EffectsForPreset resolves the preset selection: "none" renders as a
// pass-through, the adaptive preset prefers the externally generated
// override when present, everything else uses the given params.
func (fs *FilterService) EffectsForPreset(preset string, params models.FilterParams, override *models.FilterParams) []Effect {
	switch {
	case preset == PresetNone || preset == "":
		return []Effect{}
	case preset == PresetSmartAI && override != nil:
		return fs.DeriveEffects(*override)
	default:
		return fs.DeriveEffects(params)
	}
}

// FilterString renders the sequence as a CSS filter value.
func (fs *FilterService) FilterString(effects []Effect) string {
	var sb strings.Builder
	for i, e := range effects {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if e.Name == EffectHueRotate {
			fmt.Fprintf(&sb, "%s(%.1fdeg)", e.Name, e.Amount)
		} else {
			fmt.Fprintf(&sb, "%s(%.2f)", e.Name, e.Amount)
		}
	}
	return sb.String()
}

// PresetParams returns the fixed parameter set behind a preset
// identifier. The static deficiency presets are the traditional
// derivation at full severity on one axis; the adaptive preset carries
// a moderate generic default used until the backend supplies real
// parameters.
func (fs *FilterService) PresetParams(preset string) (models.FilterParams, bool) {
	switch preset {
	case PresetNone:
		return models.NeutralFilterParams(), true
	case PresetSmartAI:
		return fs.TraditionalFilterParams(models.SeverityScores{
			Protanopia:   0.5,
			Deuteranopia: 0.5,
			Tritanopia:   0.5,
		}), true
	case PresetProtanopia:
		return fs.TraditionalFilterParams(models.SeverityScores{Protanopia: 1}), true
	case PresetDeuteranopia:
		return fs.TraditionalFilterParams(models.SeverityScores{Deuteranopia: 1}), true
	case PresetTritanopia:
		return fs.TraditionalFilterParams(models.SeverityScores{Tritanopia: 1}), true
	default:
		return models.FilterParams{}, false
	}
}

// TraditionalFilterParams is the non-adaptive severity→parameters
// derivation, used as the fallback when the adaptive generator is
// unreachable.
func (fs *FilterService) TraditionalFilterParams(scores models.SeverityScores) models.FilterParams {
	prot := clamp01(scores.Protanopia)
	deut := clamp01(scores.Deuteranopia)
	trit := clamp01(scores.Tritanopia)
	peak := max(prot, deut, trit)

	return models.FilterParams{
		ProtanopiaCorrection:   prot * traditionalCorrCoeff,
		DeuteranopiaCorrection: deut * traditionalCorrCoeff,
		TritanopiaCorrection:   trit * traditionalCorrCoeff,
		BrightnessAdjustment:   1 + peak*traditionalBrightness,
		ContrastAdjustment:     1 + peak*traditionalContrast,
		SaturationAdjustment:   1 + peak*traditionalSaturation,
		HueRotation:            models.Float64Ptr(prot*20 - trit*10),
		SepiaAmount:            models.Float64Ptr(prot * 0.2),
	}
}
