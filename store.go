// store.go

package main

import (
    "context"
    "errors"

    "go.mongodb.org/mongo-driver/bson"
    "go.mongodb.org/mongo-driver/bson/primitive"
    "go.mongodb.org/mongo-driver/mongo"
    "go.mongodb.org/mongo-driver/mongo/options"
)

var (
    ErrNotFound = errors.New("not found")
    ErrConflict = errors.New("already exists")
)

type ProductStore interface {
    All(ctx context.Context) ([]Product, error)
    Get(ctx context.Context, id primitive.ObjectID) (*Product, error)
    Insert(ctx context.Context, p *Product) (primitive.ObjectID, error)
    Replace(ctx context.Context, id primitive.ObjectID, p *Product) error
    Delete(ctx context.Context, id primitive.ObjectID) error
    CountByCategory(ctx context.Context, name string) (int64, error)
    RenameCategory(ctx context.Context, oldName, newName string) error
    DeleteByCategory(ctx context.Context, name string) (int64, error)
}

type CategoryStore interface {
    All(ctx context.Context) ([]Category, error)
    Exists(ctx context.Context, name string) (bool, error)
    FindOrCreate(ctx context.Context, name string) (*Category, error)
    SetPosition(ctx context.Context, name string, position int) error
    Rename(ctx context.Context, oldName, newName string) error
    Delete(ctx context.Context, name string) error
}

// ----- Products -----

type MongoProducts struct {
    col *mongo.Collection
}

func NewMongoProducts(db *mongo.Database) *MongoProducts {
    return &MongoProducts{col: db.Collection("products")}
}

func (s *MongoProducts) All(ctx context.Context) ([]Product, error) {
    cur, err := s.col.Find(ctx, bson.M{})
    if err != nil { return nil, err }
    products := []Product{}
    if err := cur.All(ctx, &products); err != nil { return nil, err }
    return products, nil
}

func (s *MongoProducts) Get(ctx context.Context, id primitive.ObjectID) (*Product, error) {
    var p Product
    err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
    if errors.Is(err, mongo.ErrNoDocuments) { return nil, ErrNotFound }
    if err != nil { return nil, err }
    return &p, nil
}

func (s *MongoProducts) Insert(ctx context.Context, p *Product) (primitive.ObjectID, error) {
    res, err := s.col.InsertOne(ctx, p)
    if err != nil { return primitive.NilObjectID, err }
    return res.InsertedID.(primitive.ObjectID), nil
}

func (s *MongoProducts) Replace(ctx context.Context, id primitive.ObjectID, p *Product) error {
    p.ID = id
    res, err := s.col.ReplaceOne(ctx, bson.M{"_id": id}, p)
    if err != nil { return err }
    if res.MatchedCount == 0 { return ErrNotFound }
    return nil
}

func (s *MongoProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
    res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
    if err != nil { return err }
    if res.DeletedCount == 0 { return ErrNotFound }
    return nil
}

func (s *MongoProducts) CountByCategory(ctx context.Context, name string) (int64, error) {
    return s.col.CountDocuments(ctx, bson.M{"category": name})
}

func (s *MongoProducts) RenameCategory(ctx context.Context, oldName, newName string) error {
    _, err := s.col.UpdateMany(ctx, bson.M{"category": oldName}, bson.M{"$set": bson.M{"category": newName}})
    return err
}

func (s *MongoProducts) DeleteByCategory(ctx context.Context, name string) (int64, error) {
    res, err := s.col.DeleteMany(ctx, bson.M{"category": name})
    if err != nil { return 0, err }
    return res.DeletedCount, nil
}

// ----- Categories -----

type MongoCategories struct {
    col *mongo.Collection
}

func NewMongoCategories(db *mongo.Database) *MongoCategories {
    return &MongoCategories{col: db.Collection("categories")}
}

// EnsureIndexes creates the unique index on name that FindOrCreate's
// upsert relies on.
func (s *MongoCategories) EnsureIndexes(ctx context.Context) error {
    _, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
        Keys:    bson.D{{Key: "name", Value: 1}},
        Options: options.Index().SetUnique(true),
    })
    return err
}

func (s *MongoCategories) All(ctx context.Context) ([]Category, error) {
    opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
    cur, err := s.col.Find(ctx, bson.M{}, opts)
    if err != nil { return nil, err }
    categories := []Category{}
    if err := cur.All(ctx, &categories); err != nil { return nil, err }
    return categories, nil
}

func (s *MongoCategories) Exists(ctx context.Context, name string) (bool, error) {
    n, err := s.col.CountDocuments(ctx, bson.M{"name": name})
    if err != nil { return false, err }
    return n > 0, nil
}

// FindOrCreate returns the category with the given name, inserting it at
// position max+1 (or 0 in an empty collection) when absent. The insert is
// an upsert with $setOnInsert, so concurrent first use of the same name
// settles on a single document.
func (s *MongoCategories) FindOrCreate(ctx context.Context, name string) (*Category, error) {
    var existing Category
    err := s.col.FindOne(ctx, bson.M{"name": name}).Decode(&existing)
    if err == nil { return &existing, nil }
    if !errors.Is(err, mongo.ErrNoDocuments) { return nil, err }

    var top *Category
    var highest Category
    topOpts := options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})
    switch err := s.col.FindOne(ctx, bson.M{}, topOpts).Decode(&highest); {
    case err == nil:
        top = &highest
    case !errors.Is(err, mongo.ErrNoDocuments):
        return nil, err
    }

    opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
    var cat Category
    err = s.col.FindOneAndUpdate(ctx,
        bson.M{"name": name},
        bson.M{"$setOnInsert": bson.M{"name": name, "position": nextPosition(top)}},
        opts,
    ).Decode(&cat)
    if mongo.IsDuplicateKeyError(err) {
        // Lost the upsert race; the winner's document is there to read.
        err = s.col.FindOne(ctx, bson.M{"name": name}).Decode(&cat)
    }
    if err != nil { return nil, err }
    return &cat, nil
}

// nextPosition slots a new category after the current highest-positioned
// one, or at 0 when there is none.
func nextPosition(top *Category) int {
    if top == nil { return 0 }
    return top.Position + 1
}

// SetPosition is a no-op for names with no matching document.
func (s *MongoCategories) SetPosition(ctx context.Context, name string, position int) error {
    _, err := s.col.UpdateOne(ctx, bson.M{"name": name}, bson.M{"$set": bson.M{"position": position}})
    return err
}

func (s *MongoCategories) Rename(ctx context.Context, oldName, newName string) error {
    res, err := s.col.UpdateOne(ctx, bson.M{"name": oldName}, bson.M{"$set": bson.M{"name": newName}})
    if err != nil {
        if mongo.IsDuplicateKeyError(err) { return ErrConflict }
        return err
    }
    if res.MatchedCount == 0 { return ErrNotFound }
    return nil
}

func (s *MongoCategories) Delete(ctx context.Context, name string) error {
    res, err := s.col.DeleteOne(ctx, bson.M{"name": name})
    if err != nil { return err }
    if res.DeletedCount == 0 { return ErrNotFound }
    return nil
}
