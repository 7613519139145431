package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func GenerateRoundID() string {
	return "round_" + uuid.NewString()
}

func GenerateSessionID() string {
	return uuid.NewString()
}

func CalculatePayout(betAmount decimal.Decimal, multiplier int64) decimal.Decimal {
	return betAmount.Mul(decimal.NewFromInt(multiplier))
}

func FormatCurrency(amount decimal.Decimal) string {
	return fmt.Sprintf("$%s", amount.StringFixed(2))
}
