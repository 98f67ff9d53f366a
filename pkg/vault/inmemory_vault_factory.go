package vault

import "github.com/mr-shifu/sigma-lib/pkg/common/vault"

type InMemoryVaultFactory struct{}

// NewVault creates a new Vault instance for the given Vault configuration
func (f InMemoryVaultFactory) NewVault(cfg interface{}) vault.Vault {
	return NewInMemoryVault()
}
