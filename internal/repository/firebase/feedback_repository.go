package firebase

import (
	"context"
	"errors"
	"time"

	"github.com/lshigami/IntelliHire/internal/model"
	"github.com/lshigami/IntelliHire/internal/repository"
	"google.golang.org/api/iterator"
)

type feedbackRepository struct {
	p *ClientProvider
}

// Save writes the whole document in one Set call, so a record is either fully written or not at all.
func (r *feedbackRepository) Save(ctx context.Context, feedback *model.Feedback) error {
	client, err := r.p.Client(ctx)
	if err != nil {
		return err
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}
	col := client.Collection(model.FeedbackCollection)
	ref := col.NewDoc()
	if feedback.ID != "" {
		ref = col.Doc(feedback.ID)
	}
	if _, err := ref.Set(ctx, feedback); err != nil {
		return err
	}
	feedback.ID = ref.ID
	return nil
}

func (r *feedbackRepository) FindByInterviewAndUser(ctx context.Context, interviewID, userID string) (*model.Feedback, error) {
	client, err := r.p.Client(ctx)
	if err != nil {
		return nil, err
	}
	iter := client.Collection(model.FeedbackCollection).
		Where("interviewId", "==", interviewID).
		Where("userId", "==", userID).
		Documents(ctx)
	defer iter.Stop()

	var latest *model.Feedback
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var fb model.Feedback
		if err := decodeDocument(snap.Data(), nil, &fb); err != nil {
			return nil, err
		}
		fb.ID = snap.Ref.ID
		if latest == nil || fb.CreatedAt.After(latest.CreatedAt) {
			latest = &fb
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}
