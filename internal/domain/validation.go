package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	customError "github.com/segyhp/loan-engine/pkg/errors"
	"github.com/segyhp/loan-engine/pkg/utils"
)

// NewValidator returns a validator that understands decimal.Decimal fields
// through the decimal_gt, decimal_gte, decimal_lte, decimal_scale and money tags.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("decimal_gt", decimalCompare(func(d, p decimal.Decimal) bool { return d.GreaterThan(p) }))
	_ = v.RegisterValidation("decimal_gte", decimalCompare(func(d, p decimal.Decimal) bool { return d.GreaterThanOrEqual(p) }))
	_ = v.RegisterValidation("decimal_lte", decimalCompare(func(d, p decimal.Decimal) bool { return d.LessThanOrEqual(p) }))
	_ = v.RegisterValidation("decimal_scale", func(fl validator.FieldLevel) bool {
		places, err := strconv.ParseInt(fl.Param(), 10, 32)
		if err != nil {
			return false
		}
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.Equal(d.Truncate(int32(places)))
	})
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && utils.HasMoneyScale(d)
	})

	return v
}

func decimalCompare(cmp func(d, param decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		param, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return cmp(d, param)
	}
}

// ValidateStruct runs v over s and converts failures into a validation error
// with one message per field.
func ValidateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return customError.Validation("invalid request", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe)] = fieldMessage(fe)
	}
	return customError.ValidationFields(fields)
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt", "decimal_gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte", "decimal_gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte", "decimal_lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must contain at least %s items", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "money":
		return "must have at most 2 decimal places"
	case "decimal_scale":
		return fmt.Sprintf("must have at most %s decimal places", fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
