package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where the Gemini API key (or any other secret) comes from.
type Source struct {
	// Name is used in error messages.
	Name string
	// Value is an inline secret from configuration or flags.
	Value string
	// File points to a file holding the secret. It wins over Value and Env.
	File string
	// Env names an environment variable consulted when Value is empty.
	Env string
}

// Load resolves the secret in order File, Value, Env. The result is trimmed.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if secret := strings.TrimSpace(src.Value); secret != "" {
		return secret, nil
	}

	if env := strings.TrimSpace(src.Env); env != "" {
		if secret := strings.TrimSpace(os.Getenv(env)); secret != "" {
			return secret, nil
		}
		return "", fmt.Errorf("%s is not configured (set %s)", name, env)
	}

	return "", fmt.Errorf("%s is not configured", name)
}
