package store

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/event"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/gatehouse-web/gatehouse/internal/db/models"
)

const (
	usersCollection = "users"
	emailIndexName  = "email_unique"

	// CMAP event types reported by the driver's pool monitor.
	poolReady   = "ConnectionPoolReady"
	poolCleared = "ConnectionPoolCleared"
	poolClosed  = "ConnectionPoolClosed"
)

type userDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	FirstName string        `bson:"firstName"`
	LastName  string        `bson:"lastName"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	CreatedAt time.Time     `bson:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt"`
}

func (d *userDocument) toModel() *models.User {
	return &models.User{
		ID:        d.ID.Hex(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Password:  d.Password,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoStore keeps users in a MongoDB collection.
type MongoStore struct {
	client  *mongo.Client
	users   *mongo.Collection
	timeout time.Duration
}

// NewMongo connects to MongoDB, verifies the connection and ensures the unique email index.
// The driver reconnects on its own, connection state changes are logged.
func NewMongo(ctx context.Context, uri, database string, timeout time.Duration) (*MongoStore, error) {
	monitor := &connectionMonitor{}

	opts := options.Client().
		ApplyURI(uri).
		SetPoolMonitor(&event.PoolMonitor{Event: monitor.poolEvent}).
		SetServerMonitor(&event.ServerMonitor{ServerHeartbeatFailed: monitor.heartbeatFailed})

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create mongodb client")
	}

	s := &MongoStore{
		client:  client,
		users:   client.Database(database).Collection(usersCollection),
		timeout: timeout,
	}

	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, errors.Wrap(err, "failed to connect to mongodb")
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}

	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailIndexName),
	})

	return errors.Wrap(err, "failed to create email index")
}

// Create persists a new user and sets its ID to the generated ObjectID.
func (s *MongoStore) Create(ctx context.Context, u *models.User) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().UTC()
	doc := userDocument{
		ID:        bson.NewObjectID(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Password:  u.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}

		return errors.Wrap(err, "failed to insert user")
	}

	u.ID = doc.ID.Hex()
	u.CreatedAt = now
	u.UpdatedAt = now

	return nil
}

// FindByID retrieves a user by its ObjectID hex. A malformed id is reported as ErrNotFound.
func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	return s.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

// FindByEmail retrieves a user by email.
func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	var doc userDocument

	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to query user")
	}

	return doc.toModel(), nil
}

// Ping checks the primary is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	return s.client.Ping(ctx, nil) //nolint:wrapcheck
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return errors.Wrap(s.client.Disconnect(ctx), "failed to disconnect from mongodb")
}

// connectionMonitor logs connection state changes reported by the driver.
type connectionMonitor struct {
	lost atomic.Bool
}

func (m *connectionMonitor) poolEvent(evt *event.PoolEvent) {
	switch evt.Type {
	case poolReady:
		if m.lost.Swap(false) {
			log.Info().Str("address", evt.Address).Msg("mongodb reconnected")
			return
		}

		log.Info().Str("address", evt.Address).Msg("mongodb connected")
	case poolCleared:
		m.lost.Store(true)
		log.Warn().Str("address", evt.Address).Msg("mongodb disconnected")
	case poolClosed:
		log.Debug().Str("address", evt.Address).Msg("mongodb connection pool closed")
	}
}

func (m *connectionMonitor) heartbeatFailed(evt *event.ServerHeartbeatFailedEvent) {
	log.Error().Err(evt.Failure).Str("connection_id", evt.ConnectionID).Msg("mongodb connection error")
}
