// Package mongostore keeps users and contacts in MongoDB collections.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/contacts-api/internal/models"
	"github.com/harentsoaR/contacts-api/internal/storage"
)

type Store struct {
	client   *mongo.Client
	users    *mongo.Collection
	contacts *mongo.Collection

	// ids are derived from the collection maximum, so inserts are
	// serialised within this process.
	usersMu    sync.Mutex
	contactsMu sync.Mutex
}

var _ storage.Store = (*Store)(nil)

// Connect dials uri and prepares the "users" and "contacts" collections of
// the given database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:   client,
		users:    db.Collection("users"),
		contacts: db.Collection("contacts"),
	}
	_, err = s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("create username index: %w", err)
	}
	log.Println("Successfully connected to MongoDB!")
	return s, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.users.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	id, err := nextID(ctx, s.users)
	if err != nil {
		return err
	}
	u.ID = id
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) ListContacts(ctx context.Context, userID string) ([]models.Contact, error) {
	// New ids always exceed existing ones, so numeric id order is insertion order.
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetCollation(&options.Collation{Locale: "en", NumericOrdering: true})
	cursor, err := s.contacts.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}
	defer cursor.Close(ctx)

	contacts := make([]models.Contact, 0)
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	return contacts, nil
}

func (s *Store) GetContact(ctx context.Context, userID, id string) (*models.Contact, error) {
	var c models.Contact
	err := s.contacts.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return &c, nil
}

func (s *Store) CreateContact(ctx context.Context, c *models.Contact) error {
	s.contactsMu.Lock()
	defer s.contactsMu.Unlock()

	id, err := nextID(ctx, s.contacts)
	if err != nil {
		return err
	}
	c.ID = id
	if _, err := s.contacts.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *Store) PutContact(ctx context.Context, c *models.Contact) error {
	result, err := s.contacts.ReplaceOne(ctx, bson.M{"_id": c.ID, "userId": c.UserID}, c)
	if err != nil {
		return fmt.Errorf("replace contact: %w", err)
	}
	if result.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteContact(ctx context.Context, userID, id string) (*models.Contact, error) {
	var c models.Contact
	err := s.contacts.FindOneAndDelete(ctx, bson.M{"_id": id, "userId": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete contact: %w", err)
	}
	return &c, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// nextID loads every _id of the collection and returns the successor of the
// numeric maximum.
func nextID(ctx context.Context, coll *mongo.Collection) (string, error) {
	cursor, err := coll.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return "", fmt.Errorf("list ids: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return "", fmt.Errorf("decode ids: %w", err)
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return storage.NextID(ids), nil
}
