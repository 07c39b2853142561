package config

import (
	_ "embed"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fatih/color"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"

	ColorNone = "none"
)

// colors maps the prompt colour names to their terminal attribute.
var colors = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
}

type Configuration struct {
	configFs afero.Fs

	Prompt     Prompt     `json:"prompt"`
	Pipeline   Pipeline   `json:"pipeline"`
	Background Background `json:"background"`
	History    History    `json:"history"`
	Completion bool       `json:"completion"`
}

type Prompt struct {
	Color        string `json:"color" validate:"oneof=none black red green yellow blue magenta cyan white"`
	DomainSuffix string `json:"domain_suffix"`
}

type Pipeline struct {
	AbortOnSpawnFailure bool `json:"abort_on_spawn_failure"`
}

type Background struct {
	Reap bool `json:"reap"`
}

type History struct {
	File  string `json:"file"`
	Limit int    `json:"limit" validate:"gte=0"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// PromptColor returns the colour of the prompt, or nil if it is disabled.
func (c *Configuration) PromptColor() *color.Color {
	attr, ok := colors[c.Prompt.Color]
	if !ok {
		return nil
	}
	return color.New(attr)
}

// HistoryPath resolves the history file on the real filesystem. It is empty
// when history is disabled or the configuration wasn't loaded from disk.
func (c *Configuration) HistoryPath() string {
	name := c.History.File
	switch {
	case name == "":
		return ""
	case filepath.IsAbs(name):
		return name
	}

	base, ok := c.configFs.(*afero.BasePathFs)
	if !ok {
		return ""
	}
	resolved, err := base.RealPath(name)
	if err != nil {
		return ""
	}
	return resolved
}

// Default returns the built-in configuration. It isn't backed by a directory.
func Default() *Configuration {
	return defaultConfig()
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
