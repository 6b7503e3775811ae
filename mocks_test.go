// mocks_test.go

package main

import (
    "context"
    "io"
    "net/http/httptest"
    "sync"
    "time"

    "github.com/gin-gonic/gin"
    "go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
    gin.SetMode(gin.TestMode)
}

func testContext(method, target string, body io.Reader) (*gin.Context, *httptest.ResponseRecorder) {
    rec := httptest.NewRecorder()
    c, _ := gin.CreateTestContext(rec)
    req := httptest.NewRequest(method, target, body)
    req.Header.Set("Content-Type", "application/json")
    c.Request = req
    return c, rec
}

// --- Mock product store ---

type mockProducts struct {
    items      []Product
    listErr    error
    insertErr  error
    replaceErr error
    deleteErr  error
    counts     map[string]int64

    inserted  *Product
    replaced  *Product
    deletedID primitive.ObjectID
    renamed   []string
    purged    string
    purgedN   int64
}

func (m *mockProducts) All(ctx context.Context) ([]Product, error) {
    if m.listErr != nil { return nil, m.listErr }
    return m.items, nil
}

func (m *mockProducts) Get(ctx context.Context, id primitive.ObjectID) (*Product, error) {
    for i := range m.items {
        if m.items[i].ID == id { return &m.items[i], nil }
    }
    return nil, ErrNotFound
}

func (m *mockProducts) Insert(ctx context.Context, p *Product) (primitive.ObjectID, error) {
    if m.insertErr != nil { return primitive.NilObjectID, m.insertErr }
    m.inserted = p
    return primitive.NewObjectID(), nil
}

func (m *mockProducts) Replace(ctx context.Context, id primitive.ObjectID, p *Product) error {
    if m.replaceErr != nil { return m.replaceErr }
    p.ID = id
    m.replaced = p
    return nil
}

func (m *mockProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
    if m.deleteErr != nil { return m.deleteErr }
    m.deletedID = id
    return nil
}

func (m *mockProducts) CountByCategory(ctx context.Context, name string) (int64, error) {
    return m.counts[name], nil
}

func (m *mockProducts) RenameCategory(ctx context.Context, oldName, newName string) error {
    m.renamed = []string{oldName, newName}
    return nil
}

func (m *mockProducts) DeleteByCategory(ctx context.Context, name string) (int64, error) {
    m.purged = name
    return m.purgedN, nil
}

// --- Mock category store ---

type mockCategories struct {
    items     []Category
    listErr   error
    existing  map[string]bool
    focErr    error
    renameErr error
    deleteErr error

    findOrCreated []string
    positions     map[string]int
    renamed       []string
    deleted       []string
}

func (m *mockCategories) All(ctx context.Context) ([]Category, error) {
    if m.listErr != nil { return nil, m.listErr }
    return m.items, nil
}

func (m *mockCategories) Exists(ctx context.Context, name string) (bool, error) {
    return m.existing[name], nil
}

// FindOrCreate mirrors the store's position rule: existing names are
// returned as-is, new ones land after the highest position, or at 0.
func (m *mockCategories) FindOrCreate(ctx context.Context, name string) (*Category, error) {
    if m.focErr != nil { return nil, m.focErr }
    m.findOrCreated = append(m.findOrCreated, name)
    for i := range m.items {
        if m.items[i].Name == name { return &m.items[i], nil }
    }
    var top *Category
    for i := range m.items {
        if top == nil || m.items[i].Position > top.Position { top = &m.items[i] }
    }
    cat := Category{Name: name, Position: nextPosition(top)}
    m.items = append(m.items, cat)
    return &cat, nil
}

func (m *mockCategories) SetPosition(ctx context.Context, name string, position int) error {
    if m.positions == nil { m.positions = map[string]int{} }
    m.positions[name] = position
    return nil
}

func (m *mockCategories) Rename(ctx context.Context, oldName, newName string) error {
    if m.renameErr != nil { return m.renameErr }
    m.renamed = []string{oldName, newName}
    return nil
}

func (m *mockCategories) Delete(ctx context.Context, name string) error {
    if m.deleteErr != nil { return m.deleteErr }
    m.deleted = append(m.deleted, name)
    return nil
}

// --- Mock uploader ---

// mockUploader answers with a URL derived from the form field name, so
// tests can tell which slot an upload landed in. Per-field delays let
// tests scramble completion order.
type mockUploader struct {
    mu     sync.Mutex
    err    error
    delays map[string]time.Duration
    files  []string
    raws   []string
}

func (m *mockUploader) UploadFile(ctx context.Context, r io.Reader, field string) (string, error) {
    if m.err != nil { return "", m.err }
    if d := m.delays[field]; d > 0 {
        select {
        case <-time.After(d):
        case <-ctx.Done():
            return "", ctx.Err()
        }
    }
    m.mu.Lock()
    m.files = append(m.files, field)
    m.mu.Unlock()
    return "https://cdn.test/" + field + ".jpg", nil
}

func (m *mockUploader) UploadRaw(ctx context.Context, data string) (string, error) {
    if m.err != nil { return "", m.err }
    m.raws = append(m.raws, data)
    return "https://cdn.test/raw.jpg", nil
}

var _ ProductStore = (*mockProducts)(nil)
var _ CategoryStore = (*mockCategories)(nil)
var _ Uploader = (*mockUploader)(nil)
