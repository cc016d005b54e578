package services

import (
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/kendall-kelly/campus-eats-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestFieldLimitsMatchColumnSizes(t *testing.T) {
	cache := &sync.Map{}
	customer, err := schema.Parse(&models.Customer{}, cache, schema.NamingStrategy{})
	require.NoError(t, err)
	transaction, err := schema.Parse(&models.Transaction{}, cache, schema.NamingStrategy{})
	require.NoError(t, err)

	tests := []struct {
		table  *schema.Schema
		column string
		limit  int
	}{
		{customer, "username", maxUsernameLength},
		{customer, "first_name", maxPersonNameLength},
		{customer, "last_name", maxPersonNameLength},
		{customer, "gender", maxGenderLength},
		{customer, "email", maxEmailLength},
		{customer, "department", maxDepartmentLength},
		{transaction, "name", maxPayerNameLength},
		{transaction, "email", maxEmailLength},
		{transaction, "rollno", maxRollNoLength},
		{transaction, "year", maxYearLength},
		{transaction, "branch_section", maxBranchSectionLength},
		{transaction, "order_type", maxOrderTypeLength},
		{transaction, "tid", maxTIDLength},
	}

	for _, tt := range tests {
		t.Run(tt.table.Table+"."+tt.column, func(t *testing.T) {
			field := tt.table.LookUpField(tt.column)
			require.NotNil(t, field)
			assert.Equal(t, tt.limit, field.Size)
		})
	}
}

func TestCheckFieldLengths(t *testing.T) {
	validate := validator.New()

	err := checkFieldLengths(validate, []fieldLimit{
		{"year", "Final Year", maxYearLength},
		{"gender", "F", maxGenderLength},
	})
	assert.NoError(t, err)

	// Limits count characters, as varchar does
	err = checkFieldLengths(validate, []fieldLimit{{"year", "चौथा वर्ष", maxYearLength}})
	assert.NoError(t, err)

	err = checkFieldLengths(validate, []fieldLimit{
		{"name", "Asha", maxPayerNameLength},
		{"year", "Fourth Year", maxYearLength},
		{"order_type", "delivery-with-extra-words", maxOrderTypeLength},
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err, CodeFieldTooLong))
	assert.Equal(t, "year must be at most 10 characters", err.Error())
}
