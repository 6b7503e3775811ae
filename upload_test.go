// upload_test.go

package main

import (
    "encoding/json"
    "errors"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestUploadEndpoint(t *testing.T) {
    t.Run("returns hosted url", func(t *testing.T) {
        up := &mockUploader{}
        h := NewUploadHandler(up)
        c, rec := testContext("POST", "/api/upload",
            strings.NewReader(`{"data":"data:image/png;base64,iVBORw0KGgo="}`))

        h.Upload(c)

        assert.Equal(t, 200, rec.Code)
        var body map[string]string
        require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
        assert.Equal(t, "https://cdn.test/raw.jpg", body["url"])
        assert.Len(t, up.raws, 1)
    })

    t.Run("missing data", func(t *testing.T) {
        h := NewUploadHandler(&mockUploader{})
        c, rec := testContext("POST", "/api/upload", strings.NewReader(`{}`))

        h.Upload(c)

        assert.Equal(t, 400, rec.Code)
    })

    t.Run("adapter failure", func(t *testing.T) {
        h := NewUploadHandler(&mockUploader{err: errors.New("cloudinary down")})
        c, rec := testContext("POST", "/api/upload",
            strings.NewReader(`{"data":"data:image/png;base64,iVBORw0KGgo="}`))

        h.Upload(c)

        assert.Equal(t, 500, rec.Code)
    })
}
