package mongostore

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Tomlord1122/todo-graph/internal/config"
	"github.com/Tomlord1122/todo-graph/internal/domain"
	"github.com/Tomlord1122/todo-graph/internal/store"
	"github.com/Tomlord1122/todo-graph/internal/store/storetest"
)

func startMongo(t *testing.T) *Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping mongo container test in -short mode")
	}

	ctx := context.Background()
	ctr, err := tcmongo.Run(ctx, "mongo:7")
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := Connect(ctx, config.Mongo{URI: uri, Database: "todo-app"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	return client
}

func TestCollection(t *testing.T) {
	client := startMongo(t)

	var n atomic.Int32
	storetest.Run(t, func(t *testing.T) store.Collection {
		return client.Collection(fmt.Sprintf("todos_%d", n.Add(1)))
	}, storetest.Options{
		MissingID:   primitive.NewObjectID().Hex(),
		MalformedID: "not-an-object-id",
	})
}

func TestAbsentDescriptionIsNotStored(t *testing.T) {
	client := startMongo(t)
	ctx := context.Background()
	c := client.Collection("todos_layout")

	todo := domain.NewTodo("Buy milk", nil)
	require.NoError(t, c.Insert(ctx, todo))

	oid, err := primitive.ObjectIDFromHex(todo.ID)
	require.NoError(t, err)

	var raw bson.M
	require.NoError(t, c.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&raw))
	assert.Equal(t, "Buy milk", raw["title"])
	assert.Equal(t, false, raw["completed"])
	assert.NotContains(t, raw, "description")
}

func TestHealth(t *testing.T) {
	client := startMongo(t)

	stats := client.Health()
	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, "todo-app", stats["database"])
}
