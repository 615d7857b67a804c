package googlesheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const credentialsEnv = "GOOGLE_APPLICATION_CREDENTIALS"

var (
	// ErrNoCredentials is returned when no credentials could be located
	ErrNoCredentials = errors.New("no Google credentials found")

	// ErrInvalidServiceAccount is returned for a key that cannot sign tokens
	ErrInvalidServiceAccount = errors.New("invalid service account key")
)

// readOnlyScopes covers reading values and the file metadata used as version
var readOnlyScopes = []string{
	sheets.SpreadsheetsReadonlyScope,
	drive.DriveMetadataReadonlyScope,
}

// ServiceAccountKey is the JSON key file issued for a service account
type ServiceAccountKey struct {
	Type                    string `json:"type"`
	ProjectID               string `json:"project_id"`
	PrivateKeyID            string `json:"private_key_id"`
	PrivateKey              string `json:"private_key"`
	ClientEmail             string `json:"client_email"`
	ClientID                string `json:"client_id"`
	AuthURI                 string `json:"auth_uri"`
	TokenURI                string `json:"token_uri"`
	AuthProviderX509CertURL string `json:"auth_provider_x509_cert_url"`
	ClientX509CertURL       string `json:"client_x509_cert_url"`
}

// Validate checks that the key carries what is needed to sign tokens
func (k *ServiceAccountKey) Validate() error {
	if k.Type != "service_account" {
		return fmt.Errorf("%w: type is %q, want service_account", ErrInvalidServiceAccount, k.Type)
	}
	if k.ClientEmail == "" || k.PrivateKey == "" {
		return fmt.Errorf("%w: client_email and private_key are required", ErrInvalidServiceAccount)
	}
	return nil
}

// TokenSource returns a read-only token source signed with the key.
// Tokens are fetched lazily on the first request.
func (k *ServiceAccountKey) TokenSource(ctx context.Context) oauth2.TokenSource {
	tokenURL := k.TokenURI
	if tokenURL == "" {
		tokenURL = google.JWTTokenURL
	}
	config := &jwt.Config{
		Email:        k.ClientEmail,
		PrivateKey:   []byte(k.PrivateKey),
		PrivateKeyID: k.PrivateKeyID,
		Scopes:       readOnlyScopes,
		TokenURL:     tokenURL,
	}
	return config.TokenSource(ctx)
}

// ParseServiceAccountJSON decodes and validates a service account key
func ParseServiceAccountJSON(jsonData []byte) (*ServiceAccountKey, error) {
	var key ServiceAccountKey
	if err := json.Unmarshal(jsonData, &key); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON: %v", ErrInvalidServiceAccount, err)
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return &key, nil
}

// NewWithJSONKeyFile creates a SheetsAdaptor from a credentials file. An
// empty path falls back to GOOGLE_APPLICATION_CREDENTIALS.
func NewWithJSONKeyFile(ctx context.Context, config Config, jsonPath string) (*SheetsAdaptor, error) {
	jsonData, err := readKeyFile(jsonPath)
	if err != nil {
		return nil, err
	}
	return NewWithJSONKeyData(ctx, config, jsonData)
}

// NewWithJSONKeyData creates a SheetsAdaptor from credentials JSON
func NewWithJSONKeyData(ctx context.Context, config Config, jsonData []byte) (*SheetsAdaptor, error) {
	creds, err := credentialsFromJSON(ctx, jsonData)
	if err != nil {
		return nil, err
	}
	return NewSheetsAdaptor(ctx, config, option.WithCredentials(creds))
}

// NewWithServiceAccountKey creates a SheetsAdaptor from a service account
// email and PEM private key
func NewWithServiceAccountKey(ctx context.Context, config Config, email string, privateKey string) (*SheetsAdaptor, error) {
	key := &ServiceAccountKey{
		Type:        "service_account",
		ClientEmail: email,
		PrivateKey:  privateKey,
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return NewSheetsAdaptor(ctx, config, option.WithTokenSource(key.TokenSource(ctx)))
}

// NewWithDefaultCredentials creates a SheetsAdaptor from Application
// Default Credentials (environment, gcloud, or the GCE metadata server)
func NewWithDefaultCredentials(ctx context.Context, config Config) (*SheetsAdaptor, error) {
	creds, err := google.FindDefaultCredentials(ctx, readOnlyScopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoCredentials, err)
	}
	return NewSheetsAdaptor(ctx, config, option.WithCredentials(creds))
}

// CreateTokenSource builds a read-only token source from a key file path,
// credentials JSON, or a parsed *ServiceAccountKey
func CreateTokenSource(ctx context.Context, credentials interface{}) (oauth2.TokenSource, error) {
	var jsonData []byte
	switch cred := credentials.(type) {
	case *ServiceAccountKey:
		if err := cred.Validate(); err != nil {
			return nil, err
		}
		return cred.TokenSource(ctx), nil
	case string:
		data, err := readKeyFile(cred)
		if err != nil {
			return nil, err
		}
		jsonData = data
	case []byte:
		jsonData = cred
	default:
		return nil, fmt.Errorf("unsupported credential type: %T", credentials)
	}

	creds, err := credentialsFromJSON(ctx, jsonData)
	if err != nil {
		return nil, err
	}
	return creds.TokenSource, nil
}

func readKeyFile(path string) ([]byte, error) {
	if path == "" {
		path = os.Getenv(credentialsEnv)
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no key file given and %s not set", ErrNoCredentials, credentialsEnv)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return data, nil
}

func credentialsFromJSON(ctx context.Context, jsonData []byte) (*google.Credentials, error) {
	creds, err := google.CredentialsFromJSON(ctx, jsonData, readOnlyScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return creds, nil
}
