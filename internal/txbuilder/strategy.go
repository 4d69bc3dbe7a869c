package txbuilder

import (
	"errors"
	"fmt"
	"strings"
)

// Strategy selects what payload a spam transaction carries.
type Strategy string

const (
	StandardTransfer Strategy = "standard-tx"
	CalldataZeros    Strategy = "calldata-zeros"
	CalldataNonZeros Strategy = "calldata-non-zeros"
	CalldataMix      Strategy = "calldata-mix"
	AccessList       Strategy = "access-list"
	Blobs            Strategy = "blobs"
)

// ErrUnknownStrategy is returned for a strategy outside the known set.
var ErrUnknownStrategy = errors.New("unknown strategy")

// AllStrategies lists every strategy in a stable order.
var AllStrategies = []Strategy{
	StandardTransfer,
	CalldataZeros,
	CalldataNonZeros,
	CalldataMix,
	AccessList,
	Blobs,
}

// ParseStrategy converts a flag value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StandardTransfer:
		return StandardTransfer, nil
	case CalldataZeros:
		return CalldataZeros, nil
	case CalldataNonZeros:
		return CalldataNonZeros, nil
	case CalldataMix:
		return CalldataMix, nil
	case AccessList:
		return AccessList, nil
	case Blobs:
		return Blobs, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownStrategy)
	}
}

// ParseStrategies converts a comma-separated flag value to a strategy list.
func ParseStrategies(csv string) ([]Strategy, error) {
	var strategies []Strategy
	for _, part := range strings.Split(csv, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		s, err := ParseStrategy(part)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	return strategies, nil
}
