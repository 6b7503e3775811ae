// categories.go

package main

import (
    "errors"
    "fmt"

    "github.com/gin-gonic/gin"
)

type CategoryHandler struct {
    categories CategoryStore
    products   ProductStore
}

func NewCategoryHandler(categories CategoryStore, products ProductStore) *CategoryHandler {
    return &CategoryHandler{categories: categories, products: products}
}

func (h *CategoryHandler) List(c *gin.Context) {
    categories, err := h.categories.All(c.Request.Context())
    if err != nil { c.JSON(500, gin.H{"error": err.Error()}); return }
    c.JSON(200, categories)
}

// Reorder writes each category's position as its index in the submitted
// list. Names without a matching document are skipped.
func (h *CategoryHandler) Reorder(c *gin.Context) {
    var req struct {
        OrderedCategories []string `json:"orderedCategories" binding:"required"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(400, gin.H{"error": "orderedCategories is required"})
        return
    }
    ctx := c.Request.Context()
    for i, name := range req.OrderedCategories {
        if err := h.categories.SetPosition(ctx, name, i); err != nil {
            c.JSON(500, gin.H{"error": err.Error()})
            return
        }
    }
    c.JSON(200, gin.H{"message": "categories reordered"})
}

// Rename cascades through the products collection first, then moves the
// category document. The two writes are independent; a failure in
// between leaves products pointing at the new name.
func (h *CategoryHandler) Rename(c *gin.Context) {
    oldName := c.Param("name")
    var req struct {
        NewName string `json:"newName" binding:"required"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(400, gin.H{"error": "newName is required"})
        return
    }

    ctx := c.Request.Context()
    taken, err := h.categories.Exists(ctx, req.NewName)
    if err != nil { c.JSON(500, gin.H{"error": err.Error()}); return }
    if taken {
        c.JSON(409, gin.H{"error": fmt.Sprintf("category %q already exists", req.NewName)})
        return
    }
    exists, err := h.categories.Exists(ctx, oldName)
    if err != nil { c.JSON(500, gin.H{"error": err.Error()}); return }
    if !exists {
        c.JSON(404, gin.H{"error": "category not found"})
        return
    }

    if err := h.products.RenameCategory(ctx, oldName, req.NewName); err != nil {
        c.JSON(500, gin.H{"error": err.Error()})
        return
    }
    if err := h.categories.Rename(ctx, oldName, req.NewName); err != nil {
        switch {
        case errors.Is(err, ErrNotFound):
            c.JSON(404, gin.H{"error": "category not found"})
        case errors.Is(err, ErrConflict):
            c.JSON(409, gin.H{"error": fmt.Sprintf("category %q already exists", req.NewName)})
        default:
            c.JSON(500, gin.H{"error": err.Error()})
        }
        return
    }
    c.JSON(200, gin.H{"message": "category renamed"})
}

// Delete removes the category and every product referencing it.
func (h *CategoryHandler) Delete(c *gin.Context) {
    name := c.Param("name")
    ctx := c.Request.Context()
    if err := h.categories.Delete(ctx, name); err != nil {
        if errors.Is(err, ErrNotFound) { c.JSON(404, gin.H{"error": "category not found"}); return }
        c.JSON(500, gin.H{"error": err.Error()})
        return
    }
    removed, err := h.products.DeleteByCategory(ctx, name)
    if err != nil { c.JSON(500, gin.H{"error": err.Error()}); return }
    c.JSON(200, gin.H{"message": "category deleted", "productsRemoved": removed})
}
