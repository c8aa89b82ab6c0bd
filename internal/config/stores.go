package config

import "git.home.luguber.info/inful/datadocs/internal/foundation/normalization"

// StoreType is the artifact family a configured store holds.
type StoreType string

const (
	StoreTypeExpectations StoreType = "expectations"
	StoreTypeValidations  StoreType = "validations"
	// StoreTypeSite is a rendered-page target store.
	StoreTypeSite StoreType = "site"
)

var storeTypeNormalizer = normalization.NewNormalizer("store type", map[string]StoreType{
	"expectations": StoreTypeExpectations,
	"validations":  StoreTypeValidations,
	"site":         StoreTypeSite,
}, "")

// StoreBackend selects the storage implementation.
type StoreBackend string

const (
	BackendFilesystem StoreBackend = "filesystem"
	BackendSQLite     StoreBackend = "sqlite"
)

var storeBackendNormalizer = normalization.NewNormalizer("store backend", map[string]StoreBackend{
	"filesystem": BackendFilesystem,
	"fs":         BackendFilesystem,
	"sqlite":     BackendSQLite,
}, BackendFilesystem)

// StoreConfig declares one named store.
type StoreConfig struct {
	Type          StoreType    `yaml:"type"`
	Backend       StoreBackend `yaml:"backend"`
	BaseDirectory string       `yaml:"base_directory"`
	Database      string       `yaml:"database"`
}

// Default store names referenced by default section configurations.
const (
	DefaultExpectationsStore = "expectations_store"
	DefaultValidationsStore  = "validations_store"
)

func defaultStores() map[string]StoreConfig {
	return map[string]StoreConfig{
		DefaultExpectationsStore: {Type: StoreTypeExpectations, Backend: BackendFilesystem, BaseDirectory: "expectations"},
		DefaultValidationsStore:  {Type: StoreTypeValidations, Backend: BackendFilesystem, BaseDirectory: "uncommitted/validations"},
	}
}
