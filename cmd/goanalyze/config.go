package main

import (
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Report sections which may be selected with key 'show'.
const (
	showTokens  = "tokens"
	showSymbols = "symbols"
	showAST     = "ast"
	showErrors  = "errors"
)

// config is the content of a configuration file, e.g.
//
//    trace: Info
//    format: text
//    show: [errors, symbols]
//
type config struct {
	Trace  string   `yaml:"trace"`
	Format string   `yaml:"format"`
	Show   []string `yaml:"show"`
}

func defaultConfig() config {
	return config{
		Trace:  "Error",
		Format: "text",
		Show:   []string{showErrors, showSymbols},
	}
}

// loadConfig reads a YAML configuration file. Keys missing in the file keep
// their default values.
func loadConfig(filename string) (config, error) {
	c := defaultConfig()
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return c, errors.Wrap(err, "reading configuration")
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrapf(err, "configuration file %q", filename)
	}
	return c, nil
}

func (c config) validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return errors.Errorf("invalid format %q, must be text or json", c.Format)
	}
	for _, s := range c.Show {
		switch strings.ToLower(s) {
		case showTokens, showSymbols, showAST, showErrors:
		default:
			return errors.Errorf("invalid report section %q", s)
		}
	}
	return nil
}

func (c config) shows(section string) bool {
	for _, s := range c.Show {
		if strings.ToLower(s) == section {
			return true
		}
	}
	return false
}
