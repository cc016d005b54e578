package services

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Column widths of the customer and transaction tables. Inputs are checked against
// these before insert so an oversized value is a form error, not a failed write.
const (
	maxUsernameLength      = 45
	maxPersonNameLength    = 45
	maxGenderLength        = 10
	maxEmailLength         = 100
	maxDepartmentLength    = 45
	maxPayerNameLength     = 100
	maxRollNoLength        = 45
	maxYearLength          = 10
	maxBranchSectionLength = 45
	maxOrderTypeLength     = 20
)

type fieldLimit struct {
	name  string
	value string
	max   int
}

// checkFieldLengths rejects the first value longer than its limit, counted in characters
func checkFieldLengths(validate *validator.Validate, limits []fieldLimit) error {
	for _, limit := range limits {
		if err := validate.Var(limit.value, "max="+strconv.Itoa(limit.max)); err != nil {
			return newValidationError(CodeFieldTooLong,
				fmt.Sprintf("%s must be at most %d characters", limit.name, limit.max))
		}
	}
	return nil
}
