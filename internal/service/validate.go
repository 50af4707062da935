package service

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries field-keyed messages for rejected form input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

var validate = validator.New()

// ProductInput is a validated product form submission
type ProductInput struct {
	Name        string  `validate:"required"`
	Description string
	Price       float64 `validate:"gt=0"`
	Stock       int     `validate:"gte=0"`
	CategoryID  int64   `validate:"gt=0"`
}

// CategoryInput is a validated category form submission
type CategoryInput struct {
	Name        string `validate:"required"`
	Description string
}

// ValidateProductForm parses and validates raw product form fields.
// All violations are collected into one field-keyed map rather than
// failing on the first.
func ValidateProductForm(form url.Values) (*ProductInput, map[string]string) {
	fieldErrors := map[string]string{}

	input := &ProductInput{
		Name:        strings.TrimSpace(form.Get("name")),
		Description: strings.TrimSpace(form.Get("description")),
	}

	if v := strings.TrimSpace(form.Get("price")); v == "" {
		fieldErrors["price"] = "Valid price is required"
	} else if price, err := strconv.ParseFloat(v, 64); err != nil {
		fieldErrors["price"] = "Valid price is required"
	} else {
		input.Price = price
	}

	if v := strings.TrimSpace(form.Get("stock")); v == "" {
		fieldErrors["stock"] = "Valid stock is required"
	} else if stock, err := strconv.Atoi(v); err != nil {
		fieldErrors["stock"] = "Valid stock is required"
	} else {
		input.Stock = stock
	}

	if v := strings.TrimSpace(form.Get("categoryId")); v == "" {
		fieldErrors["categoryId"] = "Valid category is required"
	} else if categoryID, err := strconv.ParseInt(v, 10, 64); err != nil {
		fieldErrors["categoryId"] = "Valid category is required"
	} else {
		input.CategoryID = categoryID
	}

	mergeTagViolations(validate.Struct(input), fieldErrors)

	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}
	return input, nil
}

// ValidateCategoryForm parses and validates raw category form fields
func ValidateCategoryForm(form url.Values) (*CategoryInput, map[string]string) {
	fieldErrors := map[string]string{}

	input := &CategoryInput{
		Name:        strings.TrimSpace(form.Get("name")),
		Description: strings.TrimSpace(form.Get("description")),
	}

	mergeTagViolations(validate.Struct(input), fieldErrors)

	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}
	return input, nil
}

// mergeTagViolations folds struct tag violations into the field error map,
// keeping any parse error already recorded for the same field.
func mergeTagViolations(err error, fieldErrors map[string]string) {
	if err == nil {
		return
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return
	}

	for _, v := range violations {
		field := formFieldName(v.Field())
		if _, seen := fieldErrors[field]; !seen {
			fieldErrors[field] = fieldMessage(field)
		}
	}
}

func formFieldName(structField string) string {
	switch structField {
	case "CategoryID":
		return "categoryId"
	default:
		return strings.ToLower(structField)
	}
}

func fieldMessage(field string) string {
	switch field {
	case "name":
		return "Name is required"
	case "price":
		return "Valid price is required"
	case "stock":
		return "Valid stock is required"
	case "categoryId":
		return "Valid category is required"
	default:
		return "Invalid value"
	}
}
