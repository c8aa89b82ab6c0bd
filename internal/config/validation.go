package config

import (
	"time"

	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
)

// ValidateConfig checks a defaulted configuration for consistency.
func ValidateConfig(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	for _, check := range []func() error{
		v.validateGeneral,
		v.validateStores,
		v.validateSites,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validateGeneral() error {
	if cv.config.Version != CurrentVersion {
		return errors.ConfigError("unsupported configuration version").
			WithContext("version", cv.config.Version).
			WithContext("expected", CurrentVersion).Build()
	}
	if _, err := time.ParseDuration(cv.config.Watch.Debounce); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid watch.debounce").Build()
	}
	return nil
}

func (cv *configurationValidator) validateStores() error {
	for name, st := range cv.config.Stores {
		if st.Type == "" {
			return errors.ConfigError("store type is required").WithContext("store", name).Build()
		}
		switch st.Backend {
		case BackendFilesystem:
			if st.BaseDirectory == "" {
				return errors.ConfigError("filesystem store requires base_directory").
					WithContext("store", name).Build()
			}
		case BackendSQLite:
			if st.Type == StoreTypeSite {
				return errors.ConfigError("site stores must use the filesystem backend").
					WithContext("store", name).Build()
			}
		}
	}
	return nil
}

func (cv *configurationValidator) validateSites() error {
	for _, siteName := range cv.config.SiteNames() {
		site := cv.config.DataDocsSites[siteName]
		if site.ClassName != SiteBuilderClass {
			return errors.ConfigError("unsupported site class").
				WithContext("site", siteName).WithContext("class_name", site.ClassName).Build()
		}
		if site.SiteIndexBuilder.ClassName != DefaultIndexBuilderClass {
			return errors.ConfigError("unsupported site index builder class").
				WithContext("site", siteName).WithContext("class_name", site.SiteIndexBuilder.ClassName).Build()
		}
		for _, ns := range site.Sections {
			if err := cv.validateSection(siteName, ns); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cv *configurationValidator) validateSection(siteName string, ns NamedSection) error {
	src, ok := cv.config.Stores[ns.Section.SourceStoreName]
	if !ok {
		return errors.ConfigError("section references unknown source store").
			WithContext("site", siteName).WithContext("section", ns.Name).
			WithContext("store", ns.Section.SourceStoreName).Build()
	}
	if src.Type == StoreTypeSite {
		return errors.ConfigError("section source store must hold artifacts").
			WithContext("site", siteName).WithContext("section", ns.Name).
			WithContext("store", ns.Section.SourceStoreName).Build()
	}
	if t := ns.Section.TargetStoreName; t != "" {
		tgt, ok := cv.config.Stores[t]
		if !ok {
			return errors.ConfigError("section references unknown target store").
				WithContext("site", siteName).WithContext("section", ns.Name).WithContext("store", t).Build()
		}
		if tgt.Type != StoreTypeSite {
			return errors.ConfigError("section target store must be of type site").
				WithContext("site", siteName).WithContext("section", ns.Name).WithContext("store", t).Build()
		}
	}
	if f := ns.Section.RunIDFilter; f != nil && f.Op != FilterEq && f.Op != FilterNe {
		return errors.ConfigError("invalid run_id_filter").
			WithContext("site", siteName).WithContext("section", ns.Name).Build()
	}
	return nil
}
