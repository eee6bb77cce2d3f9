package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/ItemLedger_Go/internal/domain"
)

// ExpectedEnvSchemaVersion is the schema version that the application expects
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars lists all environment variables that must be set
var RequiredEnvVars = []string{
	EnvSchemaVersion,
	EnvAdminPrincipal,
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("notburn", validateNotBurn)
	})
	return validate
}

// validateNotBurn rejects the reserved burn principal.
func validateNotBurn(fl validator.FieldLevel) bool {
	return !domain.Principal(fl.Field().String()).IsBurn()
}

// Validate checks a loaded Config against its struct tags
func Validate(cfg *Config) error {
	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	problems := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		problems = append(problems, fmt.Sprintf("%s failed %q", e.Field(), e.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
}

// ValidateEnv checks that all required environment variables are set
// and that the schema version matches expectations
func ValidateEnv() error {
	schemaVersion := os.Getenv(EnvSchemaVersion)
	if schemaVersion == "" {
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set - please update your .env file to include this field (expected: %s)", ExpectedEnvSchemaVersion)
	}

	if schemaVersion != ExpectedEnvSchemaVersion {
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated", ExpectedEnvSchemaVersion, schemaVersion)
	}

	var missing []string
	for _, envVar := range RequiredEnvVars {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// ValidateEnvWithWarnings checks environment variables and returns warnings
// for non-critical issues (like using default values)
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string

	if os.Getenv(EnvAdminPrincipal) == "CHANGE_ME_ADMIN" {
		warnings = append(warnings, "ADMIN_PRINCIPAL appears to be using the example value - set it to the real admin identity")
	}

	if _, set := os.LookupEnv(EnvDeadLetterPath); !set {
		warnings = append(warnings, fmt.Sprintf("DEAD_LETTER_PATH not set - failed events will be written to %s", DefaultDeadLetterPath))
	}

	return warnings, nil
}
