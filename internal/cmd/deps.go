package cmd

import (
	"context"
	"os"

	"github.com/salmonumbrella/subtags/internal/api"
	"github.com/salmonumbrella/subtags/internal/secrets"
)

type versionChecker interface {
	Version(ctx context.Context) (int, error)
}

var (
	openSecretsStore  = secrets.OpenDefault
	newStoreFunc      = api.NewStore
	newVersionChecker = func(opts ...api.ClientOption) versionChecker {
		return api.NewClient(opts...)
	}
	envGet = os.Getenv
)
