package firestore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ErrMissingProjectID indicates the provider was asked for a client without
// a configured project.
var ErrMissingProjectID = errors.New("firestore: project id is required")

// Provider lazily constructs and caches a Firestore client. The first call
// to Client dials; subsequent calls reuse the cached client or the cached
// initialization error.
type Provider struct {
	projectID    string
	emulatorHost string

	mu      sync.Mutex
	client  *firestore.Client
	initErr error
	done    bool
}

// ProviderOption customises provider construction.
type ProviderOption func(*Provider)

// WithEmulatorHost points the client at a local emulator instead of the
// live service. Auth is disabled and the connection is plaintext.
func WithEmulatorHost(host string) ProviderOption {
	return func(p *Provider) { p.emulatorHost = host }
}

// NewProvider builds a lazy provider for the given project.
func NewProvider(projectID string, opts ...ProviderOption) *Provider {
	p := &Provider{projectID: projectID}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Client returns the shared Firestore client, dialing on first use.
func (p *Provider) Client(ctx context.Context) (*firestore.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return p.client, p.initErr
	}
	p.done = true

	if p.projectID == "" {
		p.initErr = ErrMissingProjectID
		return nil, p.initErr
	}

	var opts []option.ClientOption
	if p.emulatorHost != "" {
		opts = append(opts,
			option.WithoutAuthentication(),
			option.WithEndpoint(p.emulatorHost),
			option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
		)
	}

	client, err := firestore.NewClient(ctx, p.projectID, opts...)
	if err != nil {
		p.initErr = fmt.Errorf("firestore: new client: %w", err)
		return nil, p.initErr
	}
	p.client = client
	return p.client, nil
}

// Close releases the cached client if one was created.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil
	}
	err := p.client.Close()
	p.client = nil
	return err
}
