// main.go

package main

import (
    "context"
    "fmt"
    "log"
    "os"
    "time"

    "github.com/gin-contrib/cors"
    "github.com/gin-gonic/gin"
    "github.com/joho/godotenv"
    "go.mongodb.org/mongo-driver/mongo"
    "go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
    _ = godotenv.Load()

    // Connect to MongoDB
    mongoUri := os.Getenv("MONGO_PUBLIC_URL")
    if mongoUri == "" {
        mongoUri = os.Getenv("MONGO_URL")
    }
    if mongoUri == "" {
        mongoUri = "mongodb://localhost:27017"
    }
    fmt.Println("Connecting to MongoDB at:", mongoUri)
    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoUri))
    if err != nil { log.Fatal(err) }
    if err := client.Ping(ctx, nil); err != nil { log.Fatal(err) }
    db := client.Database("catalog")

    products := NewMongoProducts(db)
    categories := NewMongoCategories(db)
    if err := categories.EnsureIndexes(ctx); err != nil { log.Fatal(err) }

    up, err := NewCloudinaryUploader(
        os.Getenv("CLOUDINARY_CLOUD_NAME"),
        os.Getenv("CLOUDINARY_API_KEY"),
        os.Getenv("CLOUDINARY_API_SECRET"),
    )
    if err != nil { log.Fatal(err) }

    r := newRouter(
        NewProductHandler(products, categories, up),
        NewCategoryHandler(categories, products),
        NewUploadHandler(up),
    )

    port := os.Getenv("PORT")
    if port == "" {
        port = "8080"
    }
    r.Run(":" + port)
}

func newRouter(products *ProductHandler, categories *CategoryHandler, uploads *UploadHandler) *gin.Engine {
    r := gin.Default()

    origin := os.Getenv("CORS_ORIGIN")
    if origin == "" {
        origin = "http://localhost:5173"
    }
    r.Use(cors.New(cors.Config{
        AllowOrigins:     []string{origin},
        AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
        AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
        AllowCredentials: true,
    }))

    api := r.Group("/api")
    {
        api.GET("/products", products.List)
        api.POST("/products", products.Create)
        api.PUT("/products/:id", products.Update)
        api.DELETE("/products/:id", products.Delete)

        api.GET("/categories", categories.List)
        api.PUT("/categories/order", categories.Reorder)
        api.PUT("/categories/:name", categories.Rename)
        api.DELETE("/categories/:name", categories.Delete)

        api.POST("/upload", uploads.Upload)
    }
    return r
}
