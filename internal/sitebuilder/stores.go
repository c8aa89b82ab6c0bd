package sitebuilder

import (
	stderrors "errors"

	"git.home.luguber.info/inful/datadocs/internal/config"
	"git.home.luguber.info/inful/datadocs/internal/foundation/errors"
	"git.home.luguber.info/inful/datadocs/internal/store"
)

// Stores holds the named stores a site configuration refers to.
type Stores struct {
	Artifacts map[string]store.ArtifactStore
	Sites     map[string]*store.SiteStore
}

// NewStores returns an empty store set.
func NewStores() *Stores {
	return &Stores{
		Artifacts: make(map[string]store.ArtifactStore),
		Sites:     make(map[string]*store.SiteStore),
	}
}

// AddArtifactStore registers st under its name.
func (s *Stores) AddArtifactStore(st store.ArtifactStore) *Stores {
	s.Artifacts[st.Name()] = st
	return s
}

// AddSiteStore registers st under its name.
func (s *Stores) AddSiteStore(st *store.SiteStore) *Stores {
	s.Sites[st.Name()] = st
	return s
}

// OpenStores opens every store declared in cfg.
func OpenStores(cfg *config.Config) (*Stores, error) {
	out := NewStores()
	for name, sc := range cfg.Stores {
		switch sc.Type {
		case config.StoreTypeSite:
			st, err := store.NewSiteStore(name, sc.BaseDirectory)
			if err != nil {
				_ = out.Close()
				return nil, err
			}
			out.AddSiteStore(st)
		case config.StoreTypeExpectations, config.StoreTypeValidations:
			st, err := openArtifactStore(name, sc)
			if err != nil {
				_ = out.Close()
				return nil, err
			}
			out.AddArtifactStore(st)
		default:
			_ = out.Close()
			return nil, errors.ConfigError("unknown store type").
				WithContext("store", name).WithContext("type", string(sc.Type)).Build()
		}
	}
	return out, nil
}

func openArtifactStore(name string, sc config.StoreConfig) (store.ArtifactStore, error) {
	family := store.FamilyValidations
	if sc.Type == config.StoreTypeExpectations {
		family = store.FamilyExpectations
	}
	if sc.Backend == config.BackendSQLite {
		return store.NewSQLiteStore(name, family, sc.Database)
	}
	return store.NewFSStore(name, family, sc.BaseDirectory)
}

// Close closes every artifact store and joins the errors.
func (s *Stores) Close() error {
	var errs []error
	for _, st := range s.Artifacts {
		if err := st.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
