// upload.go

package main

import (
    "context"
    "fmt"
    "io"

    "github.com/cloudinary/cloudinary-go/v2"
    "github.com/cloudinary/cloudinary-go/v2/api/uploader"
    "github.com/gin-gonic/gin"
)

// Uploader pushes image payloads to the media store and returns their
// hosted URLs.
type Uploader interface {
    // UploadFile uploads a streamed file; field is the form field the
    // file arrived under, used only for naming.
    UploadFile(ctx context.Context, r io.Reader, field string) (string, error)
    // UploadRaw uploads an encoded payload (data URI or base64 string).
    UploadRaw(ctx context.Context, data string) (string, error)
}

type CloudinaryUploader struct {
    cld    *cloudinary.Cloudinary
    folder string
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
    cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
    if err != nil { return nil, err }
    return &CloudinaryUploader{cld: cld, folder: "catalog"}, nil
}

func (u *CloudinaryUploader) UploadFile(ctx context.Context, r io.Reader, field string) (string, error) {
    return u.upload(ctx, r)
}

func (u *CloudinaryUploader) UploadRaw(ctx context.Context, data string) (string, error) {
    return u.upload(ctx, data)
}

func (u *CloudinaryUploader) upload(ctx context.Context, file interface{}) (string, error) {
    res, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: u.folder})
    if err != nil { return "", err }
    // The SDK reports API-level failures in the result, not as an error.
    if res.Error.Message != "" {
        return "", fmt.Errorf("cloudinary: %s", res.Error.Message)
    }
    return res.SecureURL, nil
}

// ----- Handler -----

type UploadHandler struct {
    uploader Uploader
}

func NewUploadHandler(u Uploader) *UploadHandler {
    return &UploadHandler{uploader: u}
}

func (h *UploadHandler) Upload(c *gin.Context) {
    var req struct {
        Data string `json:"data" binding:"required"`
    }
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(400, gin.H{"error": "missing image data"})
        return
    }
    url, err := h.uploader.UploadRaw(c.Request.Context(), req.Data)
    if err != nil { c.JSON(500, gin.H{"error": err.Error()}); return }
    c.JSON(200, gin.H{"url": url})
}
