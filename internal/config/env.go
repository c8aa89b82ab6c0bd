package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// envFiles are loaded from the configuration directory, in order. Variables
// already present in the environment are never overwritten.
var envFiles = []string{".env", ".env.local"}

func loadEnvFiles(dir string) error {
	for _, name := range envFiles {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "load environment file").
				WithContext("path", p).Build()
		}
	}
	return nil
}
