package domain

import (
	"strconv"
	"strings"
)

// SkuSize is the structured form of a raw size string such as "1.7 oz".
// Value and Unit are nil when the corresponding part is not derivable.
type SkuSize struct {
	Value *float64 `json:"value"`
	Unit  *string  `json:"unit"`
}

// ParseSkuSize turns a raw size string into a quantity and unit.
//
// Only the portion before the first "/" is considered ("1.7 oz / 50 mL"
// carries a metric duplicate). "Closed:" sizes are not quantifiable.
// Multiplicative sizes like "2 x 3 oz" and "3 oz x 2" multiply the two
// operands; any other position of the "x" token is treated as a plain value.
func ParseSkuSize(raw string) SkuSize {
	if raw == "" {
		return SkuSize{}
	}

	tokens := strings.Fields(strings.SplitN(raw, "/", 2)[0])
	if len(tokens) == 0 {
		return SkuSize{}
	}

	for _, token := range tokens {
		if token == "Closed:" {
			return SkuSize{}
		}
	}

	if len(tokens) > 1 && tokens[1] == "x" && len(tokens) > 2 {
		return multiplySize(tokens[0], tokens[2], tokenAt(tokens, 3))
	}
	if len(tokens) > 2 && tokens[2] == "x" && len(tokens) > 3 {
		return multiplySize(tokens[0], tokens[3], tokenAt(tokens, 1))
	}

	size := SkuSize{}
	if value, err := strconv.ParseFloat(strings.TrimSpace(tokens[0]), 64); err == nil {
		size.Value = &value
	}
	if len(tokens) > 1 {
		unit := strings.Join(tokens[1:], " ")
		size.Unit = &unit
	}
	return size
}

func multiplySize(left, right string, unit *string) SkuSize {
	size := SkuSize{Unit: unit}
	a, errA := strconv.ParseFloat(left, 64)
	b, errB := strconv.ParseFloat(right, 64)
	if errA == nil && errB == nil {
		value := a * b
		size.Value = &value
	}
	return size
}

func tokenAt(tokens []string, index int) *string {
	if index >= len(tokens) {
		return nil
	}
	return &tokens[index]
}
