package auth

import (
	"context"
	"errors"
	"log"

	"github.com/EmpoweredVote/lego-catalog/internal/apperr"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const usersCollection = "users"

// MongoStore keeps users in a MongoDB collection with a unique username index.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
}

// ConnectMongo opens the client, checks the primary is reachable and ensures the
// username index exists.
func ConnectMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeConnection, "failed to connect to MongoDB", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, apperr.Wrap(apperr.CodeConnection, "failed to reach MongoDB", err)
	}

	s := &MongoStore{
		client: client,
		users:  client.Database(database).Collection(usersCollection),
	}

	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, apperr.Wrap(apperr.CodeConnection, "failed to create users index", err)
	}

	log.Printf("Connected to MongoDB database %s", database)
	return s, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) InsertUser(ctx context.Context, u User) error {
	_, err := s.users.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Wrap(apperr.CodeDuplicateKey, "", err)
	}
	if err != nil {
		return apperr.Wrap(apperr.CodeStore, "", err)
	}
	return nil
}

func (s *MongoStore) FindUser(ctx context.Context, username string) (User, error) {
	var u User
	err := s.users.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return User{}, apperr.Wrap(apperr.CodeNotFound, "", err)
	}
	if err != nil {
		return User{}, apperr.Wrap(apperr.CodeStore, "", err)
	}
	return u, nil
}

func (s *MongoStore) SetLoginHistory(ctx context.Context, username string, history []LoginEvent) error {
	res, err := s.users.UpdateOne(ctx,
		bson.D{{Key: "username", Value: username}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "loginHistory", Value: history}}}},
	)
	if err != nil {
		return apperr.Wrap(apperr.CodeStore, "", err)
	}
	if res.MatchedCount == 0 {
		return apperr.New(apperr.CodeNotFound, "user "+username+" no longer exists")
	}
	return nil
}
