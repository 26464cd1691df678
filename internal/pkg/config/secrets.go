// internal/pkg/config/secrets.go
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsProvider resolves named secrets.
type SecretsProvider interface {
	GetSecret(ctx context.Context, key string) (string, error)
}

// secretValueGetter is the part of the Secrets Manager client we call.
type secretValueGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretsManager reads a JSON key/value secret and caches it for ttl.
type AWSSecretsManager struct {
	client     secretValueGetter
	secretName string
	cache      map[string]string
	cacheMu    sync.RWMutex
	lastFetch  time.Time
	ttl        time.Duration
	logger     *slog.Logger
}

// NewAWSSecretsManager creates a Secrets Manager client for region.
func NewAWSSecretsManager(ctx context.Context, region, secretName string, logger *slog.Logger) (*AWSSecretsManager, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newAWSSecretsManager(secretsmanager.NewFromConfig(cfg), secretName, logger), nil
}

func newAWSSecretsManager(client secretValueGetter, secretName string, logger *slog.Logger) *AWSSecretsManager {
	return &AWSSecretsManager{
		client:     client,
		secretName: secretName,
		cache:      make(map[string]string),
		ttl:        5 * time.Minute,
		logger:     logger.With(slog.String("component", "secrets")),
	}
}

// GetSecret returns one key of the secret.
func (sm *AWSSecretsManager) GetSecret(ctx context.Context, key string) (string, error) {
	sm.cacheMu.RLock()
	if time.Since(sm.lastFetch) < sm.ttl {
		if val, ok := sm.cache[key]; ok {
			sm.cacheMu.RUnlock()
			return val, nil
		}
	}
	sm.cacheMu.RUnlock()

	if err := sm.refresh(ctx); err != nil {
		return "", err
	}

	sm.cacheMu.RLock()
	defer sm.cacheMu.RUnlock()
	val, ok := sm.cache[key]
	if !ok {
		return "", fmt.Errorf("secret key %s not found in %s", key, sm.secretName)
	}
	return val, nil
}

func (sm *AWSSecretsManager) refresh(ctx context.Context) error {
	sm.logger.InfoContext(ctx, "fetching secret from AWS Secrets Manager",
		slog.String("secret_name", sm.secretName))

	result, err := sm.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(sm.secretName),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return fmt.Errorf("failed to get secret value: %w", err)
	}
	if result.SecretString == nil {
		return fmt.Errorf("secret %s has no string value", sm.secretName)
	}

	var data map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &data); err != nil {
		return fmt.Errorf("failed to parse secret JSON: %w", err)
	}

	sm.cacheMu.Lock()
	sm.cache = data
	sm.lastFetch = time.Now()
	sm.cacheMu.Unlock()

	return nil
}

// EnvSecretsManager resolves secrets from environment variables.
type EnvSecretsManager struct{}

// GetSecret retrieves a secret from environment variables
func (EnvSecretsManager) GetSecret(_ context.Context, key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("environment variable %s not set", key)
	}
	return val, nil
}

// ResolveDatabasePassword replaces cfg.Database.Password with the DB_PASSWORD
// key of the configured Secrets Manager secret. It is a no-op when no secret
// name is configured.
func ResolveDatabasePassword(ctx context.Context, cfg *Config, logger *slog.Logger) error {
	if cfg.AWS.DBSecretName == "" {
		return nil
	}

	sm, err := NewAWSSecretsManager(ctx, cfg.AWS.Region, cfg.AWS.DBSecretName, logger)
	if err != nil {
		return err
	}
	return applyDatabasePassword(ctx, cfg, sm)
}

func applyDatabasePassword(ctx context.Context, cfg *Config, provider SecretsProvider) error {
	password, err := provider.GetSecret(ctx, "DB_PASSWORD")
	if err != nil {
		return fmt.Errorf("failed to resolve database password: %w", err)
	}
	cfg.Database.Password = password
	return nil
}
