package app

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Commands an App can run.
const (
	CommandAnalyze = "analyze"
	CommandExport  = "export"
	CommandDOT     = "dot"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command     string `validate:"required,oneof=analyze export dot"`
	SceneryPath string `validate:"required"` // .hcl file, directory of .hcl files or a saved .yaml graph
	OutputPath  string `validate:"required_if=Command export"`

	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	HealthcheckPort int    `validate:"gte=0,lte=65535"`

	// Inverted overrides the direction set in the scenery's analysis block.
	Inverted *bool
	// Inputs override the light given in the scenery, in joules.
	Inputs  map[string]float64 `validate:"dive,keys,required,endkeys,gte=0"`
	RankDir string             `validate:"omitempty,oneof=LR TB"`
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, formatValidationError(err)
	}
	return &cfg, nil
}

// formatValidationError reports the first failed rule in a readable form.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	e := validationErrs[0]
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s is a required configuration field and cannot be empty", e.Field())
	case "required_if":
		return fmt.Errorf("%s is required when %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Errorf("invalid %s %q: must be one of %s", e.Field(), e.Value(), e.Param())
	case "gte", "lte":
		return fmt.Errorf("invalid %s %v: out of range", e.Field(), e.Value())
	default:
		return fmt.Errorf("%s: validation failed (%s)", e.Namespace(), e.Tag())
	}
}
