// products.go

package main

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "mime/multipart"
    "strconv"
    "strings"

    "github.com/gin-gonic/gin"
    "go.mongodb.org/mongo-driver/bson/primitive"
    "golang.org/x/sync/errgroup"
)

type ProductHandler struct {
    products   ProductStore
    categories CategoryStore
    uploader   Uploader
}

func NewProductHandler(products ProductStore, categories CategoryStore, uploader Uploader) *ProductHandler {
    return &ProductHandler{products: products, categories: categories, uploader: uploader}
}

func (h *ProductHandler) List(c *gin.Context) {
    products, err := h.products.All(c.Request.Context())
    if err != nil { c.JSON(500, gin.H{"error": err.Error()}); return }
    c.JSON(200, products)
}

func (h *ProductHandler) Create(c *gin.Context) {
    p, manifest, err := bindProduct(c)
    if err != nil { c.JSON(400, gin.H{"error": err.Error()}); return }
    if err := validateProduct(p); err != nil { c.JSON(400, gin.H{"error": err.Error()}); return }

    ctx := c.Request.Context()
    if err := h.applyUploads(ctx, p, manifest); err != nil {
        c.JSON(500, gin.H{"error": err.Error()})
        return
    }
    if _, err := h.categories.FindOrCreate(ctx, p.Category); err != nil {
        c.JSON(500, gin.H{"error": err.Error()})
        return
    }
    id, err := h.products.Insert(ctx, p)
    if err != nil { c.JSON(500, gin.H{"error": err.Error()}); return }
    p.ID = id
    c.JSON(201, p)
}

func (h *ProductHandler) Update(c *gin.Context) {
    id, err := primitive.ObjectIDFromHex(c.Param("id"))
    if err != nil { c.JSON(400, gin.H{"error": "invalid product id"}); return }

    // Bail out before uploads or category creation can leave state
    // behind for a product that was never there.
    ctx := c.Request.Context()
    if _, err := h.products.Get(ctx, id); err != nil {
        if errors.Is(err, ErrNotFound) { c.JSON(404, gin.H{"error": "product not found"}); return }
        c.JSON(500, gin.H{"error": err.Error()})
        return
    }

    p, manifest, err := bindProduct(c)
    if err != nil { c.JSON(400, gin.H{"error": err.Error()}); return }
    if err := validateProduct(p); err != nil { c.JSON(400, gin.H{"error": err.Error()}); return }

    if err := h.applyUploads(ctx, p, manifest); err != nil {
        c.JSON(500, gin.H{"error": err.Error()})
        return
    }
    if _, err := h.categories.FindOrCreate(ctx, p.Category); err != nil {
        c.JSON(500, gin.H{"error": err.Error()})
        return
    }
    if err := h.products.Replace(ctx, id, p); err != nil {
        if errors.Is(err, ErrNotFound) { c.JSON(404, gin.H{"error": "product not found"}); return }
        c.JSON(500, gin.H{"error": err.Error()})
        return
    }
    c.JSON(200, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
    id, err := primitive.ObjectIDFromHex(c.Param("id"))
    if err != nil { c.JSON(400, gin.H{"error": "invalid product id"}); return }

    ctx := c.Request.Context()
    p, err := h.products.Get(ctx, id)
    if err != nil {
        if errors.Is(err, ErrNotFound) { c.JSON(404, gin.H{"error": "product not found"}); return }
        c.JSON(500, gin.H{"error": err.Error()})
        return
    }
    if err := h.products.Delete(ctx, id); err != nil {
        if errors.Is(err, ErrNotFound) { c.JSON(404, gin.H{"error": "product not found"}); return }
        c.JSON(500, gin.H{"error": err.Error()})
        return
    }

    // Last product out turns off the lights: drop the category when no
    // product references it anymore. Check-then-act, not atomic.
    if n, err := h.products.CountByCategory(ctx, p.Category); err == nil && n == 0 {
        _ = h.categories.Delete(ctx, p.Category)
    }

    c.JSON(200, gin.H{"message": "product deleted", "id": id.Hex()})
}

// ----- Request parsing -----

func validateProduct(p *Product) error {
    if strings.TrimSpace(p.Name) == "" { return errors.New("name is required") }
    if strings.TrimSpace(p.Category) == "" { return errors.New("category is required") }
    if len(p.Variants) == 0 && p.Price <= 0 {
        return errors.New("price is required for a product without variants")
    }
    return nil
}

// bindProduct reads the product either from a JSON body or from a
// multipart form. Multipart file parts are not uploaded here; they come
// back as a manifest for applyUploads.
func bindProduct(c *gin.Context) (*Product, []uploadSlot, error) {
    if c.ContentType() != "multipart/form-data" {
        var p Product
        if err := c.ShouldBindJSON(&p); err != nil { return nil, nil, err }
        return &p, nil, nil
    }

    form, err := c.MultipartForm()
    if err != nil { return nil, nil, err }

    p := &Product{
        Name:        formValue(form, "name"),
        Category:    formValue(form, "category"),
        Description: formValue(form, "description"),
    }
    if raw := formValue(form, "price"); raw != "" {
        p.Price, err = strconv.ParseFloat(raw, 64)
        if err != nil { return nil, nil, fmt.Errorf("invalid price %q", raw) }
    }
    // Retained image URLs are resubmitted by the client as text fields.
    p.Images = append(p.Images, form.Value["images"]...)
    if raw := formValue(form, "variants"); raw != "" {
        if err := json.Unmarshal([]byte(raw), &p.Variants); err != nil {
            return nil, nil, fmt.Errorf("invalid variants: %v", err)
        }
    }

    manifest, err := buildManifest(form, len(p.Variants))
    if err != nil { return nil, nil, err }
    return p, manifest, nil
}

func formValue(form *multipart.Form, key string) string {
    if v := form.Value[key]; len(v) > 0 { return strings.TrimSpace(v[0]) }
    return ""
}

// uploadSlot routes one uploaded file to its destination on the product:
// variant < 0 appends to the main image list, otherwise it replaces the
// image of the variant at that index.
type uploadSlot struct {
    field   string
    variant int
    file    *multipart.FileHeader
}

const variantFieldPrefix = "variant_image_"

// buildManifest resolves the form's file part names into explicit slots
// before any upload is dispatched, so nothing downstream parses field
// names again.
func buildManifest(form *multipart.Form, variantCount int) ([]uploadSlot, error) {
    var manifest []uploadSlot
    for field, files := range form.File {
        variant := -1
        if rest, ok := strings.CutPrefix(field, variantFieldPrefix); ok {
            n, err := strconv.Atoi(rest)
            if err != nil || n < 0 {
                return nil, fmt.Errorf("malformed file field %q", field)
            }
            if n >= variantCount {
                return nil, fmt.Errorf("file field %q has no matching variant", field)
            }
            variant = n
        } else if field != "images" {
            return nil, fmt.Errorf("unexpected file field %q", field)
        }
        for _, fh := range files {
            manifest = append(manifest, uploadSlot{field: field, variant: variant, file: fh})
        }
    }
    return manifest, nil
}

// applyUploads pushes every manifest entry to the media store
// concurrently, waits for all of them, and splices the resulting URLs
// into the product by slot. One failed upload fails the lot.
func (h *ProductHandler) applyUploads(ctx context.Context, p *Product, manifest []uploadSlot) error {
    if len(manifest) == 0 { return nil }

    urls := make([]string, len(manifest))
    g, ctx := errgroup.WithContext(ctx)
    for i, slot := range manifest {
        i, slot := i, slot
        g.Go(func() error {
            f, err := slot.file.Open()
            if err != nil { return err }
            defer f.Close()
            url, err := h.uploader.UploadFile(ctx, f, slot.field)
            if err != nil { return fmt.Errorf("upload %s: %v", slot.field, err) }
            urls[i] = url
            return nil
        })
    }
    if err := g.Wait(); err != nil { return err }

    for i, slot := range manifest {
        if slot.variant >= 0 {
            p.Variants[slot.variant].Image = urls[i]
        } else {
            p.Images = append(p.Images, urls[i])
        }
    }
    return nil
}
