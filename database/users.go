package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/princinho/urbanthreads/auth"
	"github.com/princinho/urbanthreads/models"
	"github.com/princinho/urbanthreads/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoUsers implements auth.UserStore on the users and password_resets
// collections.
type MongoUsers struct {
	users  *mongo.Collection
	resets *mongo.Collection
}

func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{
		users:  db.Collection("users"),
		resets: db.Collection("password_resets"),
	}
}

// EnsureIndexes creates the unique email index.
func (m *MongoUsers) EnsureIndexes(ctx context.Context) error {
	_, err := m.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (m *MongoUsers) find(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := m.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (m *MongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.find(ctx, bson.M{"email": email})
}

func (m *MongoUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	return m.find(ctx, bson.M{"_id": id})
}

func (m *MongoUsers) Create(ctx context.Context, user *models.User) error {
	if _, err := m.users.InsertOne(ctx, user); err != nil {
		if utils.IsDuplicateKey(err) {
			return auth.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (m *MongoUsers) SavePasswordReset(ctx context.Context, reset models.PasswordReset) error {
	_, err := m.resets.InsertOne(ctx, reset)
	return err
}
