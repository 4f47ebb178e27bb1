package api

import (
	"fmt"
	"strings"
)

// Backend names accepted by NewStore.
const (
	BackendAnkiConnect = "ankiconnect"
	BackendFile        = "file"
)

// StoreConfig describes which backend to open.
type StoreConfig struct {
	Backend        string
	CollectionPath string
	ClientOptions  []ClientOption
}

// NewStore opens the TagStore selected by cfg.Backend. An empty backend means
// AnkiConnect.
func NewStore(cfg StoreConfig) (TagStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendAnkiConnect, "":
		return NewClient(cfg.ClientOptions...), nil
	case BackendFile:
		if strings.TrimSpace(cfg.CollectionPath) == "" {
			return nil, ValidationError{Message: "file backend requires a collection path (--collection or collection_path)"}
		}
		return NewFileStore(cfg.CollectionPath), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s (expected ankiconnect|file)", cfg.Backend)
	}
}
