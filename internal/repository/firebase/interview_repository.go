package firebase

import (
	"context"
	"errors"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/lshigami/IntelliHire/internal/model"
	"google.golang.org/api/iterator"
)

type interviewRepository struct {
	p *ClientProvider
}

func (r *interviewRepository) Create(ctx context.Context, interview *model.Interview) error {
	client, err := r.p.Client(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = now
	}
	interview.UpdatedAt = now

	col := client.Collection(model.InterviewCollection)
	ref := col.NewDoc()
	if interview.ID != "" {
		ref = col.Doc(interview.ID)
	}
	if _, err := ref.Set(ctx, interview); err != nil {
		return err
	}
	interview.ID = ref.ID
	return nil
}

func (r *interviewRepository) FindByID(ctx context.Context, id string) (*model.Interview, error) {
	client, err := r.p.Client(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := client.Collection(model.InterviewCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err)
	}
	return decodeInterview(snap)
}

func (r *interviewRepository) FindByUserID(ctx context.Context, userID string) ([]model.Interview, error) {
	client, err := r.p.Client(ctx)
	if err != nil {
		return nil, err
	}
	col := client.Collection(model.InterviewCollection)
	var interviews []model.Interview
	seen := map[string]bool{}
	for _, field := range []string{"userId", "userid"} {
		found, err := collectInterviews(col.Where(field, "==", userID).Documents(ctx), "", 0)
		if err != nil {
			return nil, err
		}
		for _, interview := range found {
			if !seen[interview.ID] {
				seen[interview.ID] = true
				interviews = append(interviews, interview)
			}
		}
	}
	// Sorted here so the query needs no composite index.
	sortNewestFirst(interviews)
	return interviews, nil
}

func (r *interviewRepository) FindLatest(ctx context.Context, excludeUserID string, limit int) ([]model.Interview, error) {
	client, err := r.p.Client(ctx)
	if err != nil {
		return nil, err
	}
	iter := client.Collection(model.InterviewCollection).
		Where("finalized", "==", true).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	interviews, err := collectInterviews(iter, excludeUserID, limit)
	if err != nil {
		return nil, err
	}
	// Firestore orders timestamps and string dates separately.
	sortNewestFirst(interviews)
	return interviews, nil
}

func sortNewestFirst(interviews []model.Interview) {
	sort.SliceStable(interviews, func(i, j int) bool {
		return interviews[i].CreatedAt.After(interviews[j].CreatedAt)
	})
}

func collectInterviews(iter *firestore.DocumentIterator, excludeUserID string, limit int) ([]model.Interview, error) {
	defer iter.Stop()
	var interviews []model.Interview
	for limit <= 0 || len(interviews) < limit {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		interview, err := decodeInterview(snap)
		if err != nil {
			return nil, err
		}
		if excludeUserID != "" && interview.UserID == excludeUserID {
			continue
		}
		interviews = append(interviews, *interview)
	}
	return interviews, nil
}

func decodeInterview(snap *firestore.DocumentSnapshot) (*model.Interview, error) {
	var interview model.Interview
	if err := decodeDocument(snap.Data(), interviewAliases, &interview); err != nil {
		return nil, err
	}
	interview.ID = snap.Ref.ID
	return &interview, nil
}
