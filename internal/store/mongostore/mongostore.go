package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Tomlord1122/todo-graph/internal/config"
	"github.com/Tomlord1122/todo-graph/internal/domain"
	"github.com/Tomlord1122/todo-graph/internal/store"
)

// Client owns the connection to one MongoDB database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials the server and pings the primary before returning.
func Connect(ctx context.Context, cfg config.Mongo) (*Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Client{client: client, db: client.Database(cfg.Database)}, nil
}

// Collection returns the named todo collection.
func (c *Client) Collection(name string) *Collection {
	return &Collection{coll: c.db.Collection(name)}
}

func (c *Client) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := map[string]string{"driver": config.DriverMongo}
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["database"] = c.db.Name()
	return stats
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// todoDocument is the persisted shape; description is left out when absent.
type todoDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description *string            `bson:"description,omitempty"`
	Completed   bool               `bson:"completed"`
}

func (d todoDocument) toDomain() domain.Todo {
	return domain.Todo{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
	}
}

// Collection implements store.Collection on a MongoDB collection.
type Collection struct {
	coll *mongo.Collection
}

var _ store.Collection = (*Collection)(nil)

func (c *Collection) ListAll(ctx context.Context) ([]domain.Todo, error) {
	cur, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var docs []todoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	todos := make([]domain.Todo, 0, len(docs))
	for _, d := range docs {
		todos = append(todos, d.toDomain())
	}
	return todos, nil
}

func (c *Collection) FindByID(ctx context.Context, id string) (*domain.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return decodeOne(c.coll.FindOne(ctx, bson.M{"_id": oid}))
}

func (c *Collection) Insert(ctx context.Context, todo *domain.Todo) error {
	doc := todoDocument{
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
	}
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	todo.ID = oid.Hex()
	return nil
}

func (c *Collection) MergeUpdate(ctx context.Context, id string, changes store.Changes) (*domain.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	// An empty $set is rejected by the server.
	if changes.IsEmpty() {
		return decodeOne(c.coll.FindOne(ctx, bson.M{"_id": oid}))
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M(changes.Columns())}
	return decodeOne(c.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts))
}

func (c *Collection) DeleteByID(ctx context.Context, id string) (*domain.Todo, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return decodeOne(c.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}))
}

func decodeOne(res *mongo.SingleResult) (*domain.Todo, error) {
	var doc todoDocument
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	todo := doc.toDomain()
	return &todo, nil
}
