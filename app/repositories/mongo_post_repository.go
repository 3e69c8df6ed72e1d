package repositories

import (
	"context"
	"errors"
	"fmt"

	"postboard/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPostRepository implements PostRepository on a MongoDB collection.
// The store assigns ids at insert time; createdAt and userId are never
// touched by an update.
type MongoPostRepository struct {
	posts *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository and ensures the
// userId index that owner-filtered listing relies on.
func NewMongoPostRepository(ctx context.Context, db *mongo.Database) (*MongoPostRepository, error) {
	posts := db.Collection(PostCollection)

	index := mongo.IndexModel{Keys: bson.D{{Key: "userId", Value: 1}}}
	if _, err := posts.Indexes().CreateOne(ctx, index); err != nil {
		return nil, fmt.Errorf("create userId index: %w", err)
	}

	return &MongoPostRepository{posts: posts}, nil
}

// Create inserts a new post and fills in its store-assigned id.
func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	post.BeforeCreate()

	res, err := r.posts.InsertOne(ctx, post)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	post.ID = res.InsertedID.(primitive.ObjectID)

	return nil
}

// GetByID retrieves a post by its hex id. An id that does not parse is
// treated the same as one that does not resolve.
func (r *MongoPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var post models.Post
	err = r.posts.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}

	return &post, nil
}

// List retrieves all posts, newest first, optionally filtered to a single
// owner. Equal timestamps fall back to the store's natural order.
func (r *MongoPostRepository) List(ctx context.Context, userID string) ([]*models.Post, error) {
	filter := bson.D{}
	if userID != "" {
		filter = bson.D{{Key: "userId", Value: userID}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := make([]*models.Post, 0)
	for cur.Next(ctx) {
		var post models.Post
		if err := cur.Decode(&post); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, &post)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

// Update overwrites the mutable fields of an existing post. Only title,
// content and userName are written; userId and createdAt are immutable.
func (r *MongoPostRepository) Update(ctx context.Context, post *models.Post) error {
	filter := bson.D{{Key: "_id", Value: post.ID}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: post.Title},
		{Key: "content", Value: post.Content},
		{Key: "userName", Value: post.UserName},
	}}}

	res, err := r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete permanently removes a post by its hex id.
func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.posts.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}
