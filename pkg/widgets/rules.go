package widgets

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-formdialog/pkg/model"
)

// DefinitionRules converts the declarative validation rules of def into
// ozzo-validation rules. Unparseable thresholds are skipped.
func DefinitionRules(def model.Definition) []validation.Rule {
	var rules []validation.Rule
	for _, rule := range def.Validations {
		value := strings.TrimSpace(rule.Params["value"])
		switch rule.Kind {
		case model.ValidationRuleRequired:
			rules = append(rules, validation.Required)
		case model.ValidationRuleMinLength:
			if n, err := strconv.Atoi(value); err == nil {
				rules = append(rules, validation.RuneLength(n, 0))
			}
		case model.ValidationRuleMaxLength:
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				rules = append(rules, validation.RuneLength(0, n))
			}
		case model.ValidationRulePattern:
			if re, err := regexp.Compile(rule.Params["pattern"]); err == nil {
				rules = append(rules, validation.Match(re))
			}
		case model.ValidationRuleMin:
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				rules = append(rules, numericRule(validation.Min(n)))
			}
		case model.ValidationRuleMax:
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				rules = append(rules, numericRule(validation.Max(n)))
			}
		}
	}
	return rules
}

// numericRule applies a threshold rule to the integer form of a string value.
// Empty and non-numeric values are left to the integer rule.
func numericRule(threshold validation.ThresholdRule) validation.Rule {
	return validation.By(func(value any) error {
		raw, _ := value.(string)
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil
		}
		return threshold.Validate(n)
	})
}

func integerRules(model.Definition) []validation.Rule {
	return []validation.Rule{is.Int}
}

var errNotBoolean = validation.NewError("validation_not_boolean", "must be true or false")

func booleanRules(model.Definition) []validation.Rule {
	return []validation.Rule{validation.By(func(value any) error {
		raw, _ := value.(string)
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.EqualFold(raw, "on") {
			return nil
		}
		if _, err := strconv.ParseBool(raw); err != nil {
			return errNotBoolean
		}
		return nil
	})}
}

func optionRules(def model.Definition) []validation.Rule {
	if len(def.Options) == 0 {
		return nil
	}
	allowed := make([]any, 0, len(def.Options))
	for _, option := range def.Options {
		allowed = append(allowed, option.Value)
	}
	return []validation.Rule{validation.In(allowed...)}
}

// Validate runs rules against a raw occurrence value and decorates the error
// with the field name.
func Validate(def model.Definition, value string, rules []validation.Rule) error {
	if len(rules) == 0 {
		return nil
	}
	if err := validation.Validate(value, rules...); err != nil {
		var verr validation.Error
		if errors.As(err, &verr) {
			return fmt.Errorf("%s: %w", labelFor(def), err)
		}
		return err
	}
	return nil
}

func labelFor(def model.Definition) string {
	if label := strings.TrimSpace(def.Label); label != "" {
		return label
	}
	return model.DefaultLabeler(def.Name)
}
