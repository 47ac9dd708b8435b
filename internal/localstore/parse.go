package localstore

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mlmarketplace/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

func uuidParse(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("uuid.Parse: %w", err)
	}
	return id, nil
}

func moneyParse(amount, code string) (domain.Money, error) {
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, fmt.Errorf("decimal.NewFromString: %w", err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}
	return domain.Money{Amount: dec, Currency: unit}, nil
}
