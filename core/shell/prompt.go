package shell

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/lcamplin/tpsh/core/vos"
)

// DefaultDomainSuffix is stripped from host names in the prompt.
const DefaultDomainSuffix = ".local"

// PromptRenderer builds the user@host:path> prompt.
type PromptRenderer struct {
	OS vos.VOS
	// DomainSuffix is removed from the end of the host name.
	DomainSuffix string
	// Color paints the whole prompt; nil leaves it plain.
	Color *color.Color
}

// Render returns the prompt. Any failed identity lookup is returned as an
// error and no prompt is built.
func (p *PromptRenderer) Render() (string, error) {
	user, err := p.OS.Username()
	if err != nil {
		return "", fmt.Errorf("error getting username: %w", err)
	}

	host, err := p.OS.Hostname()
	if err != nil {
		return "", fmt.Errorf("error getting hostname: %w", err)
	}
	if p.DomainSuffix != "" {
		host = strings.TrimSuffix(host, p.DomainSuffix)
	}

	cwd, err := p.OS.Getwd()
	if err != nil {
		return "", fmt.Errorf("error getting current working directory: %w", err)
	}

	home, err := p.OS.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}

	prompt := fmt.Sprintf("%s@%s:%s> ", user, host, abbreviateHome(cwd, home))
	if p.Color != nil {
		prompt = p.Color.Sprint(prompt)
	}
	return prompt, nil
}

// abbreviateHome replaces a leading home directory in dir with ~.
func abbreviateHome(dir, home string) string {
	if home == "" {
		return dir
	}
	home = filepath.Clean(home)

	switch {
	case dir == home:
		return "~"
	case home == "/":
		return dir
	case strings.HasPrefix(dir, home+"/"):
		return "~" + strings.TrimPrefix(dir, home)
	}
	return dir
}
