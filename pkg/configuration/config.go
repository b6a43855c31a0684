// Package configuration loads this module's runtime knobs: logging mode,
// the signing backend a caller wires keymaterial operations to, and the
// TPM transport a caller dials. It follows the teacher's envconfig (path
// from the environment) plus yaml.v2 (the file's contents) plus
// creasty/defaults plus go-playground/validator pipeline.
package configuration

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/creasty/defaults"
)

// PKCS11Config names the HSM module, slot, and key a PKCS#11-backed
// signer binds to. Field names mirror hsm.PKCS11Config so a loaded
// Config can be passed straight into hsm.NewPKCS11Backend.
type PKCS11Config struct {
	ModulePath string `yaml:"module_path"`
	SlotID     uint   `yaml:"slot_id"`
	PIN        string `yaml:"pin"`
	KeyLabel   string `yaml:"key_label"`
}

// TPMConfig names the transport a caller dials to reach a TPM 2.0 device
// or simulator. Exactly one of DevicePath (a platform TPM resource
// manager node, e.g. /dev/tpmrm0) or SimulatorAddress (a host:port
// software TPM) is expected to be set; tpm.Executor itself is transport-
// agnostic and takes whichever Transport the caller builds from these.
type TPMConfig struct {
	DevicePath       string `yaml:"device_path"`
	SimulatorAddress string `yaml:"simulator_address"`
}

// Config is this module's top-level configuration.
type Config struct {
	// Production selects the teacher's production vs. development zap
	// encoder in pkg/logger.New.
	Production bool `yaml:"production" default:"false"`

	// Backend selects which hsm.Backend keymaterial operations are
	// wired to: "software" (in-process, the default) or "pkcs11"
	// (hardware-backed, requires PKCS11 below).
	Backend string `yaml:"backend" default:"software" validate:"oneof=software pkcs11"`

	PKCS11 PKCS11Config `yaml:"pkcs11"`

	TPM TPMConfig `yaml:"tpm"`

	// PoolTrimIntervalSeconds is how often a caller should invoke
	// sensitive.Pool.TrimExcess on the process-wide DefaultPool, 0
	// disables periodic trimming (the pool still self-bounds via
	// slabCapacity, trimming only reclaims slack to the Go allocator).
	PoolTrimIntervalSeconds int `yaml:"pool_trim_interval_seconds" default:"0"`
}

type envVars struct {
	ConfigYAML string `envconfig:"VCCORE_CONFIG_YAML" required:"true"`
}

// New reads the config file path from the VCCORE_CONFIG_YAML environment
// variable, applies defaults, parses the YAML, and validates the result.
func New() (*Config, error) {
	env := envVars{}
	if err := envconfig.Process("", &env); err != nil {
		return nil, err
	}
	return Load(env.ConfigYAML)
}

// Load reads, defaults, parses, and validates the config file at path.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fileInfo.IsDir() {
		return nil, errors.New("config path is a directory")
	}

	configFile, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(configFile, cfg); err != nil {
		return nil, err
	}

	if err := Check(cfg); err != nil {
		return nil, err
	}
	if cfg.Backend == "pkcs11" {
		if cfg.PKCS11.ModulePath == "" || cfg.PKCS11.PIN == "" || cfg.PKCS11.KeyLabel == "" {
			return nil, errors.New("backend pkcs11 requires pkcs11.module_path, pkcs11.pin, and pkcs11.key_label")
		}
	}

	return cfg, nil
}

// NewValidator builds a validator that reports struct field names using
// their yaml tag rather than the Go field name, mirroring the teacher's
// json-tag-name convention in pkg/helpers.
func NewValidator() (*validator.Validate, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate, nil
}

// Check validates s against its validate struct tags.
func Check(s any) error {
	validate, err := NewValidator()
	if err != nil {
		return err
	}
	return validate.Struct(s)
}
