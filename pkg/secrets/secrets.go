package secrets

import (
	"context"
	"errors"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	gax "github.com/googleapis/gax-go/v2"
	"golang.org/x/exp/errors/fmt"
	"google.golang.org/api/option"
	secretmanagerpb "google.golang.org/genproto/googleapis/cloud/secretmanager/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrEmpty    = errors.New("secrets: empty secret")
	ErrNotFound = errors.New("secrets: secret not found")
	ErrNoName   = errors.New("secrets: missing secret version name")
)

// Source yields the shared signing secret. It is consulted once at start-up.
type Source interface {
	Secret(ctx context.Context) ([]byte, error)
}

// Static is a secret held in process memory, typically the compiled-in
// default or a value read from the environment.
type Static []byte

func (s Static) Secret(context.Context) ([]byte, error) {
	if len(s) == 0 {
		return nil, ErrEmpty
	}
	return append([]byte(nil), s...), nil
}

type SecretManagerClient interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

func Dial(ctx context.Context, opts ...option.ClientOption) (*secretmanager.Client, error) {
	c, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("secrets: error initializing secret manager client: %w", err)
	}
	return c, nil
}

// SecretManager reads a secret version such as
// projects/p/secrets/gateway-secret/versions/latest.
type SecretManager struct {
	client SecretManagerClient
	name   string
}

var _ Source = (*SecretManager)(nil)

func NewSecretManager(client SecretManagerClient, name string) *SecretManager {
	return &SecretManager{client: client, name: name}
}

func (s *SecretManager) Secret(ctx context.Context) ([]byte, error) {
	if s.name == "" {
		return nil, ErrNoName
	}
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: s.name,
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("secrets: %s: %w", s.name, ErrNotFound)
		}
		return nil, fmt.Errorf("secrets: error accessing %s: %w", s.name, err)
	}
	data := res.GetPayload().GetData()
	if len(data) == 0 {
		return nil, fmt.Errorf("secrets: %s: %w", s.name, ErrEmpty)
	}
	return data, nil
}
