package firebase

import (
	"context"
	"time"

	"github.com/lshigami/IntelliHire/internal/model"
)

type userRepository struct {
	p *ClientProvider
}

func (r *userRepository) Upsert(ctx context.Context, user *model.User) error {
	client, err := r.p.Client(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	_, err = client.Collection(model.UserCollection).Doc(user.ID).Set(ctx, user)
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	client, err := r.p.Client(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := client.Collection(model.UserCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err)
	}
	var user model.User
	if err := decodeDocument(snap.Data(), nil, &user); err != nil {
		return nil, err
	}
	user.ID = snap.Ref.ID
	return &user, nil
}
