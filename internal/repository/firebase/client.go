package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	"github.com/lshigami/IntelliHire/config"
	"github.com/lshigami/IntelliHire/internal/repository"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ClientProvider lazily creates the process-wide Firestore client on first use.
type ClientProvider struct {
	cfg config.Firebase

	once   sync.Once
	client *firestore.Client
	err    error
}

func NewClientProvider(cfg *config.Config) *ClientProvider {
	return &ClientProvider{cfg: cfg.Firebase}
}

// Client returns the shared client, creating it on the first call. A failed
// initialisation is sticky: every later call returns the same error.
func (p *ClientProvider) Client(ctx context.Context) (*firestore.Client, error) {
	p.once.Do(func() {
		if p.cfg.ProjectID == "" {
			p.err = errors.New("FIREBASE_PROJECT_ID is not set")
			return
		}
		var opts []option.ClientOption
		if p.cfg.ClientEmail != "" && p.cfg.PrivateKey != "" {
			creds, err := serviceAccountJSON(p.cfg)
			if err != nil {
				p.err = err
				return
			}
			opts = append(opts, option.WithCredentialsJSON(creds))
		} else {
			log.Warn().Msg("Firebase service account not configured, falling back to application default credentials")
		}
		// The client outlives the request that triggered its creation.
		p.client, p.err = firestore.NewClient(context.WithoutCancel(ctx), p.cfg.ProjectID, opts...)
		if p.err == nil {
			log.Info().Str("projectID", p.cfg.ProjectID).Msg("Firestore client initialized")
		}
	})
	if p.err != nil {
		return nil, fmt.Errorf("firestore client: %w", p.err)
	}
	return p.client, nil
}

func (p *ClientProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func serviceAccountJSON(cfg config.Firebase) ([]byte, error) {
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   cfg.ProjectID,
		"client_email": cfg.ClientEmail,
		"private_key":  cfg.PrivateKey,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}

// NewRepositories builds the Firestore-backed collections.
func NewRepositories(p *ClientProvider) *repository.Repositories {
	return &repository.Repositories{
		Interviews: &interviewRepository{p: p},
		Feedback:   &feedbackRepository{p: p},
		Users:      &userRepository{p: p},
	}
}

func translate(err error) error {
	if status.Code(err) == codes.NotFound {
		return repository.ErrNotFound
	}
	return err
}
