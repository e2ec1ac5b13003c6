// Package conf loads application configuration: YAML settings and the
// Starlark URL configuration file.
package conf

import (
	"fmt"
	"os"

	v "github.com/atzufuki/alexi/pkg/validator"
	"gopkg.in/yaml.v3"
)

type Settings struct {
	Addr         string   `yaml:"addr,omitempty"`
	Debug        bool     `yaml:"debug,omitempty"`
	TemplateDirs []string `yaml:"template_dirs"`
	URLConf      string   `yaml:"url_conf,omitempty"`
}

// LoadSettings reads and validates a YAML settings file. Unknown fields
// are rejected so typos fail loudly at startup.
func LoadSettings(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := &Settings{Addr: ":8000"}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("decoding settings file %q: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings file %q: %w", path, err)
	}
	return s, nil
}

func (s *Settings) Validate() error {
	return v.All(
		v.NotEmpty(s.Addr, "addr"),
		v.Map(s.TemplateDirs, func(dir string, description string) error {
			return v.NotEmpty(dir, description)
		}, "template_dirs"),
		v.NoDuplicates(s.TemplateDirs, "template_dirs"),
	)
}
