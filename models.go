// models.go

package main

import "go.mongodb.org/mongo-driver/bson/primitive"

type Product struct {
    ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
    Name        string             `bson:"name" json:"name"`
    Category    string             `bson:"category" json:"category"`
    Description string             `bson:"description,omitempty" json:"description,omitempty"`
    Price       float64            `bson:"price,omitempty" json:"price,omitempty"`
    Images      []string           `bson:"images" json:"images"`
    Variants    []Variant          `bson:"variants,omitempty" json:"variants,omitempty"`
}

// Variant has no identity of its own; it lives inside its product document.
type Variant struct {
    Size  string  `bson:"size" json:"size"`
    Price float64 `bson:"price" json:"price"`
    Image string  `bson:"image" json:"image"`
}

// Category is referenced from products by name, not by id. Renames and
// deletes therefore cascade across the products collection.
type Category struct {
    ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
    Name     string             `bson:"name" json:"name"`
    Position int                `bson:"position" json:"position"`
}
