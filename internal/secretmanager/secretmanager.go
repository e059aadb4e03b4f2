// Package secretmanager reads secrets from AWS Secrets Manager.
package secretmanager

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type secretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Swapped in tests.
var (
	loadDefaultConfig       = config.LoadDefaultConfig
	newSecretsManagerClient = func(cfg aws.Config) secretsManagerAPI {
		return secretsmanager.NewFromConfig(cfg)
	}
)

// GetSecret returns the string value of secret id, using the default AWS
// credential chain (env, shared config, instance role).
func GetSecret(ctx context.Context, id string) (string, error) {
	cfg, err := loadDefaultConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("secretmanager: loading AWS config: %w", err)
	}

	out, err := newSecretsManagerClient(cfg).GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(id),
	})
	if err != nil {
		return "", fmt.Errorf("secretmanager: reading %s: %w", id, err)
	}
	if out.SecretString == nil {
		return "", errors.New("secretmanager: secret " + id + " has no string value")
	}

	return *out.SecretString, nil
}
