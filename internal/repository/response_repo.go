package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"formpulse/internal/model"
)

// ResponseRepo handles MongoDB operations for form responses.
type ResponseRepo interface {
	Create(ctx context.Context, response *model.Response) (string, error)
	GetByID(ctx context.Context, id string) (*model.Response, error)
	GetByForm(ctx context.Context, formID string) ([]*model.Response, error)
	GetByForms(ctx context.Context, formIDs []string) ([]*model.Response, error)
	CountByForm(ctx context.Context, formID string) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteByForm(ctx context.Context, formID string) error
}

type responseRepo struct {
	collection *mongo.Collection
}

// NewResponseRepo creates a new response repository.
func NewResponseRepo(db *mongo.Database) ResponseRepo {
	return &responseRepo{
		collection: db.Collection("responses"),
	}
}

func (r *responseRepo) Create(ctx context.Context, response *model.Response) (string, error) {
	if response.SubmittedAt.IsZero() {
		response.SubmittedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, response)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	response.ID = oid.Hex()
	return response.ID, nil
}

func (r *responseRepo) GetByID(ctx context.Context, id string) (*model.Response, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var response model.Response
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&response)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	response.ID = id
	return &response, nil
}

func (r *responseRepo) GetByForm(ctx context.Context, formID string) ([]*model.Response, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"formId": formID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []*model.Response
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) GetByForms(ctx context.Context, formIDs []string) ([]*model.Response, error) {
	if len(formIDs) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"formId": bson.M{"$in": formIDs}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []*model.Response
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *responseRepo) CountByForm(ctx context.Context, formID string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"formId": formID})
}

func (r *responseRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *responseRepo) DeleteByForm(ctx context.Context, formID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"formId": formID})
	return err
}
