package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.APIURL != "http://localhost:5000/api" {
		t.Errorf("Expected api_url to be 'http://localhost:5000/api', got '%s'", config.APIURL)
	}

	if config.PageSize != 10 {
		t.Errorf("Expected page_size to be 10, got %d", config.PageSize)
	}

	if config.Profile != "default" {
		t.Errorf("Expected profile to be 'default', got '%s'", config.Profile)
	}

	if config.ExportPath != "exports" {
		t.Errorf("Expected export_path to be 'exports', got '%s'", config.ExportPath)
	}

	if config.TokenEnv != "PARTNER_TOKEN" {
		t.Errorf("Expected token_env to be 'PARTNER_TOKEN', got '%s'", config.TokenEnv)
	}
}

func TestValidate(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got error: %v", err)
	}

	config.APIURL = "ftp://example.com"
	if err := config.Validate(); err == nil {
		t.Error("Expected validation error for non-http api_url")
	}

	config = DefaultConfig()
	config.PageSize = 0
	if err := config.Validate(); err == nil {
		t.Error("Expected validation error for zero page_size")
	}

	config = DefaultConfig()
	config.PageSize = 500
	if err := config.Validate(); err == nil {
		t.Error("Expected validation error for oversized page_size")
	}
}

func TestInitializeProject(t *testing.T) {
	// Create a temporary directory for testing
	tempDir, err := os.MkdirTemp("", "partnerctl-test")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(tempDir)

	// Change to temp directory
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}
	defer os.Chdir(originalDir)

	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	// Test initialization
	if err := InitializeProject(); err != nil {
		t.Fatalf("Failed to initialize project: %v", err)
	}

	// Check if config file was created
	configPath := filepath.Join(tempDir, "partner.config.json")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Errorf("Config file was not created at %s", configPath)
	}

	// Re-running must refuse to clobber an existing config
	if err := InitializeProject(); err == nil {
		t.Error("Expected error when config file already exists")
	}
}
