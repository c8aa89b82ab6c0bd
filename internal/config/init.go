package config

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// exampleConfig is written by Init. It loads without modification.
const exampleConfig = `# datadocs project configuration
version: "1.0"

logging:
  level: info
  format: text

metrics:
  enabled: false
  listen: ":9102"

journal:
  database: uncommitted/datadocs-journal.db

watch:
  debounce: 2s
  # schedule: "0 * * * *"

stores:
  expectations_store:
    type: expectations
    backend: filesystem
    base_directory: expectations/
  validations_store:
    type: validations
    backend: filesystem
    base_directory: uncommitted/validations/

data_docs_sites:
  local_site:
    class_name: SiteBuilder
    show_how_to_buttons: true
    store_backend:
      base_directory: uncommitted/data_docs/local_site/
    site_index_builder:
      class_name: DefaultSiteIndexBuilder
    site_section_builders:
      expectations:
        source_store_name: expectations_store
        renderer:
          class_name: ExpectationSuitePageRenderer
      validations:
        source_store_name: validations_store
        run_id_filter:
          ne: profiling
        renderer:
          class_name: ValidationResultsPageRenderer
      profiling:
        source_store_name: validations_store
        run_id_filter:
          eq: profiling
        renderer:
          class_name: ProfilingResultsPageRenderer
`

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}
	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "create configuration directory").
				WithContext("path", dir).Build()
		}
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write configuration file").
			WithContext("path", configPath).Build()
	}
	return nil
}
