package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// OAuthClientConfig is the "Desktop app" client file downloaded from the Google Cloud console.
// Only the installed block is read.
type OAuthClientConfig struct {
	Installed *InstalledClient `json:"installed" validate:"required"`
}

// InstalledClient holds the credentials for the installed-app flow.
// Empty endpoints fall back to Google's.
type InstalledClient struct {
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
	AuthURI      string `json:"auth_uri,omitempty" validate:"omitempty,url"`
	TokenURI     string `json:"token_uri,omitempty" validate:"omitempty,url"`
}

// oauthClientFileName returns oauthClient.<env>.json, or oauthClient.json when env is empty
func oauthClientFileName(env string) string {
	if env == "" {
		return "oauthClient.json"
	}
	return "oauthClient." + env + ".json"
}

// LoadOAuthClientWithEnv finds the env's OAuth client file in the current directory or the home directory
func LoadOAuthClientWithEnv(env string) (*OAuthClientConfig, error) {
	fileName := oauthClientFileName(env)

	path, err := findFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to find oauth client file %s: %w", fileName, err)
	}

	return LoadOAuthClientFromPath(path)
}

// LoadOAuthClientFromPath reads the OAuth client file and checks it holds installed-app credentials
func LoadOAuthClientFromPath(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	var client OAuthClientConfig
	if err := json.Unmarshal(data, &client); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client file %s: %w", path, err)
	}

	if err := validate.Struct(&client); err != nil {
		return nil, fmt.Errorf("oauth client file %s has no usable installed-app credentials: %w", path, err)
	}

	return &client, nil
}
