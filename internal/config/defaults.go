package config

import (
	"path/filepath"
)

// DefaultApplier applies defaults for one configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// defaultAppliers run in order; sites depend on stores being defaulted.
var defaultAppliers = []DefaultApplier{
	&GeneralDefaultApplier{},
	&StoreDefaultApplier{},
	&SiteDefaultApplier{},
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

// GeneralDefaultApplier handles version, metrics and watch defaults.
type GeneralDefaultApplier struct{}

func (g *GeneralDefaultApplier) Domain() string { return "general" }

func (g *GeneralDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = ":9102"
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = "2s"
	}
	return nil
}

// StoreDefaultApplier provides the default stores and per-store locations.
type StoreDefaultApplier struct{}

func (s *StoreDefaultApplier) Domain() string { return "stores" }

func (s *StoreDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Stores) == 0 {
		cfg.Stores = defaultStores()
	}
	for name, st := range cfg.Stores {
		if st.Backend == "" {
			st.Backend = BackendFilesystem
		}
		switch {
		case st.Backend == BackendSQLite && st.Database == "":
			st.Database = filepath.Join("uncommitted", name+".db")
		case st.Backend == BackendFilesystem && st.BaseDirectory == "" && st.Type != StoreTypeSite:
			st.BaseDirectory = filepath.Join("uncommitted", name)
		}
		cfg.Stores[name] = st
	}
	return nil
}

// SiteDefaultApplier provides the default site and merges section defaults.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "data_docs_sites" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.DataDocsSites) == 0 {
		cfg.DataDocsSites = map[string]*SiteConfig{"local_site": nil}
	}
	for name, site := range cfg.DataDocsSites {
		if site == nil {
			site = &SiteConfig{}
			cfg.DataDocsSites[name] = site
		}
		site.Name = name
		if site.ClassName == "" {
			site.ClassName = SiteBuilderClass
		}
		if site.StoreBackend.BaseDirectory == "" {
			site.StoreBackend.BaseDirectory = filepath.Join("uncommitted", "data_docs", name)
		}
		ib := &site.SiteIndexBuilder
		if ib.ClassName == "" {
			ib.ClassName = DefaultIndexBuilderClass
		}
		if ib.Renderer.ClassName == "" {
			ib.Renderer.ClassName = defaultIndexRenderer
		}
		if ib.View.ClassName == "" {
			ib.View.ClassName = defaultView
		}
		if err := site.resolveSections(); err != nil {
			return err
		}
	}
	return nil
}
