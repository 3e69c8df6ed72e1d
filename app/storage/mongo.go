// Package storage owns the connection to the document store. The client
// is constructed once by the serve command and handed to the repositories;
// there is no package-global connection state.
package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Client wraps a connected MongoDB client and the application database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes the MongoDB connection and verifies it with a ping.
// A failure here is fatal to the caller; no retry is attempted.
func Connect(ctx context.Context, uri, dbName string) (*Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Client{client: client, db: client.Database(dbName)}, nil
}

// Database returns the application database.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Close tears down the connection.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
