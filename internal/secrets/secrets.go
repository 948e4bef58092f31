// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves API credentials from the environment, an optional
// dotenv file, and a directory of plain-text key files.
//
// Key files live in a directory such as .secrets/: the filename is the key
// name and the trimmed file contents are the value (e.g. openai-api-key).
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/subosito/gotenv"
)

// ErrMissingCredential is returned when no source provides the API key.
var ErrMissingCredential = errors.New("missing API credential")

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadDotenv loads KEY=value pairs from path into the process environment.
// Variables that are already set keep their values. A missing file is not
// an error.
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := gotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// KeyFileName maps an environment variable name to its key file name:
// OPENAI_API_KEY becomes openai-api-key.
func KeyFileName(envVar string) string {
	return strings.ReplaceAll(strings.ToLower(envVar), "_", "-")
}

// Lookup returns the credential named by envVar. The process environment
// wins; the key file from files (as returned by Load) is the fallback.
func Lookup(envVar string, files map[string]string) (string, error) {
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v, nil
	}
	if v, ok := files[KeyFileName(envVar)]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%s not set and no %s key file: %w", envVar, KeyFileName(envVar), ErrMissingCredential)
}
