// Package config holds the runtime configuration of fcrypt and its validation.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	mask "github.com/showa-93/go-mask"

	"github.com/idelchi/fcrypt/internal/encryption"
	"github.com/idelchi/fcrypt/internal/keygen"
)

// Command identifies the operation a Config is validated for.
type Command string

const (
	Generate Command = "generate"
	Encrypt  Command = "encrypt"
	Decrypt  Command = "decrypt"
	Hash     Command = "hash"
	Compare  Command = "compare"
	Catalog  Command = "catalog"
	Verify   Command = "verify"
	Check    Command = "check"
)

// Config holds every flag and positional argument.
type Config struct {
	// Common flags
	Parallel    int      `mapstructure:"parallel"     yaml:"parallel"               validate:"min=1"                  label:"--parallel"`
	Quiet       bool     `mapstructure:"quiet"        yaml:"quiet"`
	Stats       bool     `mapstructure:"stats"        yaml:"stats"`
	Show        bool     `mapstructure:"show"         yaml:"-"`
	Suffix      string   `mapstructure:"suffix"       yaml:"suffix"                 validate:"required,excludes=/"    label:"--suffix"`
	Exclude     []string `mapstructure:"exclude"      yaml:"exclude,omitempty"`
	ExcludeFrom string   `mapstructure:"exclude-from" yaml:"exclude-from,omitempty"`

	// Cipher flags
	Key       string `mapstructure:"key"       yaml:"key,omitempty"       mask:"filled" validate:"omitempty,hexadecimal,exclusive=KeyFile" label:"--key"`
	KeyFile   string `mapstructure:"key-file"  yaml:"key-file,omitempty"`
	Algorithm string `mapstructure:"algorithm" yaml:"algorithm,omitempty"`
	Tagged    bool   `mapstructure:"tagged"    yaml:"tagged"`
	Delete    bool   `mapstructure:"delete"    yaml:"delete"`

	// Generate flags
	Size int `mapstructure:"size" yaml:"size,omitempty" validate:"omitempty,oneof=128 192 256" label:"--size"`

	// Verify flags
	Catalog string `mapstructure:"catalog" yaml:"catalog,omitempty"`

	// Set by the subcommand
	Command Command `mapstructure:"-" yaml:"command"`

	// Positional arguments
	Targets []string `mapstructure:"-" yaml:"targets" validate:"min=1,dive,required" label:"targets"`
}

// Validate checks the configuration against the struct tags and the needs of the command.
func (c *Config) Validate() error {
	validate, err := newValidator()
	if err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", describe(err))
	}

	if err := c.validateCommand(); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	return nil
}

//nolint:cyclop
func (c *Config) validateCommand() error {
	switch c.Command {
	case Generate:
		if c.Size == 0 {
			return fmt.Errorf("%w: --size is required, one of %v", ErrMissing, keygen.Sizes())
		}
	case Encrypt, Decrypt:
		if c.Key == "" && c.KeyFile == "" {
			return fmt.Errorf("%w: one of --key or --key-file is required", ErrMissing)
		}

		if c.Algorithm == "" {
			return fmt.Errorf("%w: --algorithm is required", ErrMissing)
		}

		if _, err := encryption.ParseAlgorithm(c.Algorithm); err != nil {
			return err
		}
	case Compare:
		if len(c.Targets) != 2 { //nolint:mnd
			return fmt.Errorf("%w: compare takes exactly two files", ErrMissing)
		}
	case Hash, Catalog, Verify, Check:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, c.Command)
	}

	return nil
}

// Mode returns the encryption mode of a cipher command.
func (c *Config) Mode() encryption.Mode {
	if c.Command == Decrypt {
		return encryption.Decrypt
	}

	return encryption.Encrypt
}

// Format returns the envelope format selected by --tagged.
func (c *Config) Format() encryption.Format {
	if c.Tagged {
		return encryption.FormatTagged
	}

	return encryption.FormatRaw
}

// InlineKey decodes the hex key given through --key, or returns nil when none was given.
// A leading "0x" or "0X" is accepted.
func (c *Config) InlineKey() ([]byte, error) {
	if c.Key == "" {
		return nil, nil
	}

	digits := strings.TrimPrefix(strings.TrimPrefix(c.Key, "0x"), "0X")

	key, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("decoding key: %w", err)
	}

	if !keygen.ValidLength(len(key)) {
		return nil, fmt.Errorf("%w: got %d bytes", keygen.ErrInvalidLength, len(key))
	}

	return key, nil
}

// Display writes the configuration as YAML with secrets masked.
func (c *Config) Display(w io.Writer) error {
	masked, err := mask.Mask(*c)
	if err != nil {
		return fmt.Errorf("masking configuration: %w", err)
	}

	out, err := yaml.Marshal(masked)
	if err != nil {
		return fmt.Errorf("marshalling configuration: %w", err)
	}

	_, err = w.Write(out)

	return err
}

// describe turns validator errors into one readable error per failed field.
func describe(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	msgs := make([]string, 0, len(validationErrors))

	for _, fe := range validationErrors {
		switch fe.Tag() {
		case "exclusive":
			msgs = append(msgs, fmt.Sprintf("%s is mutually exclusive with --key-file", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag()))
		}
	}

	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}
