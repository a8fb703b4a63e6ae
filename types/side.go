package types

import (
	"errors"
	"fmt"
	"strings"
)

type Side string

const (
	SideTypeBuy  Side = "BUY"
	SideTypeSell Side = "SELL"
)

var UnknownSideErr = errors.New("unknown trade side")

// ParseSide accepts "buy"/"sell" in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case SideTypeBuy:
		return SideTypeBuy, nil
	case SideTypeSell:
		return SideTypeSell, nil
	}
	return "", fmt.Errorf("%q: %w", s, UnknownSideErr)
}

func (s Side) Valid() bool {
	return s == SideTypeBuy || s == SideTypeSell
}
