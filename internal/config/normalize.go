package config

import "git.home.luguber.info/inful/datadocs/internal/foundation/errors"

// normalizeConfig case-folds enumerations. Unknown non-empty values are
// configuration errors rather than silent defaults.
func normalizeConfig(cfg *Config) error {
	level, err := logLevelNormalizer.NormalizeWithError(string(cfg.Logging.Level))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "logging.level").Build()
	}
	cfg.Logging.Level = level

	format, err := logFormatNormalizer.NormalizeWithError(string(cfg.Logging.Format))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "logging.format").Build()
	}
	cfg.Logging.Format = format

	for name, st := range cfg.Stores {
		t, err := storeTypeNormalizer.NormalizeWithError(string(st.Type))
		if err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "stores.type").WithContext("store", name).Build()
		}
		b, err := storeBackendNormalizer.NormalizeWithError(string(st.Backend))
		if err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "stores.backend").WithContext("store", name).Build()
		}
		st.Type, st.Backend = t, b
		cfg.Stores[name] = st
	}
	return nil
}
