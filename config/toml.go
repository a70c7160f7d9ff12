package config

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pkg/errors"
)

const DefaultDirPerm = 0o700

//go:embed config.toml.tpl
var defaultConfigTemplate string

var configTemplate = template.Must(template.New("config").Parse(defaultConfigTemplate))

// WriteConfigFile renders cfg into configFilePath, creating its directory.
func WriteConfigFile(configFilePath string, cfg *Config) error {
	var buffer bytes.Buffer
	if err := configTemplate.Execute(&buffer, cfg); err != nil {
		return errors.Wrap(err, "render config")
	}
	if err := os.MkdirAll(filepath.Dir(configFilePath), DefaultDirPerm); err != nil {
		return err
	}
	return os.WriteFile(configFilePath, buffer.Bytes(), 0o644)
}
