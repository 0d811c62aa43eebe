// Package secrets resolves credentials such as the database password and the
// token signing key from environment variables or Azure Key Vault.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// SecretSource defines where secrets are loaded from
type SecretSource string

const (
	SourceEnvironment SecretSource = "environment"
	SourceVault       SecretSource = "vault"
	// SourceAuto picks environment for development and vault everywhere else
	SourceAuto SecretSource = "auto"
)

// ErrSecretNotFound is returned when no source has a value for a secret.
var ErrSecretNotFound = errors.New("secret not found")

// vaultReader is the subset of the Key Vault client the provider needs.
type vaultReader interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// Provider abstracts secret retrieval from different sources
type Provider struct {
	source      SecretSource
	vault       vaultReader
	logger      *zap.Logger
	environment string
}

// ProviderConfig holds configuration for the secrets provider
type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Binding ties a Key Vault secret name to the environment variable that can
// override it and the destination it is written to.
type Binding struct {
	VaultName string
	EnvName   string
	Target    *string
}

// ResolveSource turns SourceAuto into a concrete source for the environment.
func ResolveSource(source SecretSource, environment string) SecretSource {
	if source != SourceAuto && source != "" {
		return source
	}
	switch environment {
	case "development", "local", "test", "":
		return SourceEnvironment
	default:
		return SourceVault
	}
}

// NewProvider creates a new secrets provider
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := ResolveSource(cfg.Source, cfg.Environment)

	provider := &Provider{
		source:      source,
		logger:      logger,
		environment: cfg.Environment,
	}

	if source == SourceVault {
		if cfg.VaultName == "" {
			return nil, fmt.Errorf("vault name required when using vault secret source")
		}
		vaultClient, err := NewVaultClient(&VaultConfig{
			VaultName:    cfg.VaultName,
			CacheEnabled: cfg.CacheEnabled,
			CacheTTL:     cfg.CacheTTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vault client: %w", err)
		}
		provider.vault = vaultClient
	}

	logger.Info("secrets provider initialized",
		zap.String("source", string(source)),
		zap.String("environment", cfg.Environment),
	)

	return provider, nil
}

// GetSecret retrieves a secret by name. For the environment source the name
// is an environment variable, for the vault source a Key Vault secret name.
func (p *Provider) GetSecret(ctx context.Context, name string) (string, error) {
	switch p.source {
	case SourceEnvironment:
		value := os.Getenv(name)
		if value == "" {
			return "", fmt.Errorf("%w: environment variable %s", ErrSecretNotFound, name)
		}
		return value, nil
	case SourceVault:
		if p.vault == nil {
			return "", fmt.Errorf("vault client not initialized")
		}
		return p.vault.GetSecret(ctx, name)
	default:
		return "", fmt.Errorf("unknown secret source: %s", p.source)
	}
}

// GetSecretOrEnv prefers an explicitly set environment variable and falls
// back to the configured source.
func (p *Provider) GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error) {
	if envValue := os.Getenv(envName); envValue != "" {
		p.logger.Debug("using environment variable override", zap.String("env_name", envName))
		return envValue, nil
	}
	return p.GetSecret(ctx, secretName)
}

// Resolve fills every binding it can. Missing secrets keep their current
// value; the names of the resolved bindings are returned.
func (p *Provider) Resolve(ctx context.Context, bindings []Binding) []string {
	resolved := make([]string, 0, len(bindings))
	for _, b := range bindings {
		value, err := p.GetSecretOrEnv(ctx, b.VaultName, b.EnvName)
		if err != nil || value == "" {
			p.logger.Debug("secret not resolved, keeping configured value",
				zap.String("secret_name", b.VaultName),
				zap.Error(err),
			)
			continue
		}
		*b.Target = value
		resolved = append(resolved, b.VaultName)
	}
	return resolved
}

// Source returns the current secret source
func (p *Provider) Source() SecretSource {
	return p.source
}

// IsVaultEnabled returns true if secrets are loaded from vault
func (p *Provider) IsVaultEnabled() bool {
	return p.source == SourceVault
}
