package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

const (
	TokenEnv       = "HUGGINGFACE_API_TOKEN"
	ProxyURLEnv    = "PIXSCRIBE_PROXY_URL"
	TimeoutEnv     = "PIXSCRIBE_TIMEOUT"
	DownloadDirEnv = "PIXSCRIBE_DOWNLOAD_DIR"

	DefaultProxyURL = "http://localhost:3001/api/generate-image"
)

// placeholderTokens are values shipped in example .env files.
var placeholderTokens = []string{"your_api_token_here", "your_token_here", "hf_xxx"}

type Config struct {
	Token       string
	ProxyURL    string
	DownloadDir string
	Timeout     time.Duration // zero leaves the transport default in place
}

// LoadConfig reads the client configuration from the environment. Values in
// envFiles (default ".env") are loaded first without overriding variables
// that are already set; missing files are ignored.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}
	}

	config := &Config{
		Token:       strings.TrimSpace(os.Getenv(TokenEnv)),
		ProxyURL:    lo.Ternary(os.Getenv(ProxyURLEnv) != "", os.Getenv(ProxyURLEnv), DefaultProxyURL),
		DownloadDir: os.Getenv(DownloadDirEnv),
	}

	if raw := os.Getenv(TimeoutEnv); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", TimeoutEnv, raw, err)
		}
		config.Timeout = timeout
	}

	return config, nil
}

// IsTokenConfigured reports whether token looks like a real credential.
func IsTokenConfigured(token string) bool {
	token = strings.TrimSpace(token)
	return token != "" && !lo.Contains(placeholderTokens, token)
}

func configurationError() *Error {
	return &Error{
		Kind: KindConfiguration,
		Message: "API token not configured. Please add your HuggingFace API token to the .env file.\n\n" +
			"Steps:\n" +
			"1. Visit: https://huggingface.co/settings/tokens\n" +
			"2. Create a new token with \"Read\" permission\n" +
			"3. Copy the token (starts with hf_)\n" +
			"4. Open the .env file in your working directory\n" +
			"5. Add: " + TokenEnv + "=your_token_here\n" +
			"6. Run the command again",
	}
}
