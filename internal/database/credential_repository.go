package database

import (
	"context"
	"errors"
	"fmt"

	"skb-backend/models"
	"skb-backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CredentialRepository reads the admin login record. The service itself
// never writes it; Upsert exists for the seed-admin command.
type CredentialRepository struct {
	collection *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database, collection string) *CredentialRepository {
	return &CredentialRepository{collection: db.Collection(collection)}
}

func (r *CredentialRepository) FindByUsername(ctx context.Context, username string) (*models.Credential, error) {
	ctx, cancel := utils.WithTimeout(ctx)
	defer cancel()

	var cred models.Credential
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&cred)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	return &cred, nil
}

// Upsert creates the credential or replaces its password hash.
func (r *CredentialRepository) Upsert(ctx context.Context, username, passwordHash string) (created bool, err error) {
	ctx, cancel := utils.WithTimeout(ctx)
	defer cancel()

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"username": username, "password": passwordHash}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, fmt.Errorf("failed to save credential: %w", err)
	}
	return res.UpsertedCount > 0, nil
}
