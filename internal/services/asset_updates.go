package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "rwaconsole/internal/errors"
	"rwaconsole/internal/models"
	"rwaconsole/internal/validator"
)

// assetFieldParsers maps each updatable request key to its parser. Keys are
// also the column names. Anything not listed here is dropped.
var assetFieldParsers = map[string]func(interface{}) (interface{}, error){
	"name":                parseName,
	"description":         parseDescription,
	"apy":                 parseAPY,
	"price":               parsePrice,
	"status":              parseStatus,
	"risk_score":          parseScore,
	"yield_confidence":    parseScore,
	"token_address":       parseOptionalAddress,
	"distributor_address": parseOptionalAddress,
	"next_payout_date":    parseOptionalTime,
}

// sanitizeAssetUpdates keeps allow-listed keys and validates each value.
// It returns ErrEmptyUpdate when nothing updatable remains.
func sanitizeAssetUpdates(raw map[string]interface{}) (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	for key, value := range raw {
		parse, ok := assetFieldParsers[key]
		if !ok {
			continue
		}
		parsed, err := parse(value)
		if err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("%s: %v", key, err))
		}
		fields[key] = parsed
	}
	if len(fields) == 0 {
		return nil, apperrors.ErrEmptyUpdate
	}
	return fields, nil
}

// auditActionForUpdate picks the admin log action for an applied update.
func auditActionForUpdate(fields map[string]interface{}) string {
	switch fields["status"] {
	case models.AssetStatusActive:
		return "activate_asset"
	case models.AssetStatusPaused:
		return "pause_asset"
	}
	return "update_asset"
}

func parseName(v interface{}) (interface{}, error) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("must be a non-empty string")
	}
	return strings.TrimSpace(s), nil
}

func parseDescription(v interface{}) (interface{}, error) {
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("must be a string")
	}
	return s, nil
}

func parseAPY(v interface{}) (interface{}, error) {
	d, err := toDecimal(v)
	if err != nil {
		return nil, err
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("must not be negative")
	}
	f, _ := d.Float64()
	return f, nil
}

func parsePrice(v interface{}) (interface{}, error) {
	d, err := toDecimal(v)
	if err != nil {
		return nil, err
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("must not be negative")
	}
	return d, nil
}

func parseStatus(v interface{}) (interface{}, error) {
	s, ok := v.(string)
	if !ok || !models.AssetStatus(s).IsValid() {
		return nil, fmt.Errorf("must be one of Active, Maturing, Paused")
	}
	return models.AssetStatus(s), nil
}

func parseScore(v interface{}) (interface{}, error) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f < 0 || f > 100 {
		return nil, fmt.Errorf("must be an integer between 0 and 100")
	}
	return int(f), nil
}

func parseOptionalAddress(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("must be a hex address or null")
	}
	addr, ok := validator.NormalizeWallet(s)
	if !ok {
		return nil, fmt.Errorf("must be a hex address or null")
	}
	return addr, nil
}

func parseOptionalTime(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("must be an RFC 3339 timestamp or null")
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("must be an RFC 3339 timestamp or null")
	}
	return t.UTC(), nil
}

func toDecimal(v interface{}) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero, fmt.Errorf("must be a number")
		}
		return d, nil
	}
	return decimal.Zero, fmt.Errorf("must be a number")
}
