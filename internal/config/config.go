package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultEnvFile is loaded when no --env-file is given and it exists
const DefaultEnvFile = "config/datapath.env"

// Config holds the environment seen by datapath commands
type Config struct {
	// Env is the merged view of flags, process environment and env file
	Env map[string]string
}

// New creates a new Config instance
func New() *Config {
	return &Config{
		Env: make(map[string]string),
	}
}

// LoadEnvFile loads environment variables from a file
// Returns nil if the file doesn't exist (not an error)
func (c *Config) LoadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, not an error
		}
		return fmt.Errorf("failed to open env file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		line = strings.TrimPrefix(line, "export ")

		// Parse KEY=value format
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := unquote(strings.TrimSpace(parts[1]))

		// Simple variable expansion: ${VAR} -> value of VAR
		value = c.expandVars(value)

		// Only set if not already set (precedence: flags > env > env-file).
		// An empty value does not count as set.
		if existing, exists := c.Env[key]; !exists || (existing == "" && value != "") {
			c.Env[key] = value
		}
	}

	return scanner.Err()
}

// LoadFromEnvironment loads environment variables from the current process
func (c *Config) LoadFromEnvironment() {
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := parts[0]
		value := parts[1]

		// Only set if not already set (precedence: flags > env)
		if _, exists := c.Env[key]; !exists {
			c.Env[key] = value
		}
	}
}

// SetFlag sets a configuration flag (overrides anything else)
func (c *Config) SetFlag(key, value string) {
	c.Env[key] = value
}

// Lookup has the signature of os.LookupEnv and reads the merged view
func (c *Config) Lookup(key string) (string, bool) {
	value, ok := c.Env[key]
	return value, ok
}

// expandVars performs simple variable expansion for ${VAR} syntax.
// Each reference is expanded once; substituted text is not rescanned.
func (c *Config) expandVars(value string) string {
	var b strings.Builder
	rest := value

	for {
		start := strings.Index(rest, "${")
		if start == -1 {
			break
		}

		end := strings.Index(rest[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := rest[start+2 : end]

		// Look up the variable value
		varValue := ""
		if val, exists := c.Env[varName]; exists {
			varValue = val
		} else if val := os.Getenv(varName); val != "" {
			varValue = val
		}

		b.WriteString(rest[:start])
		b.WriteString(varValue)
		rest = rest[end+1:]
	}

	b.WriteString(rest)
	return b.String()
}

// unquote removes one pair of matching surrounding quotes
func unquote(value string) string {
	if len(value) >= 2 && ((value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'')) {
		return value[1 : len(value)-1]
	}
	return value
}
