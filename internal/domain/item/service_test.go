package item

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/costumehub/costumehub-api/internal/domain/category"
	"github.com/costumehub/costumehub-api/internal/pkg/imaging"
)

type fakeRepo struct {
	items map[uuid.UUID]*Item
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[uuid.UUID]*Item{}}
}

func (f *fakeRepo) Create(ctx context.Context, item *Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	return f.items[id], nil
}

func (f *fakeRepo) Update(ctx context.Context, item *Item) error {
	if _, ok := f.items[item.ID]; !ok {
		return ErrItemNotFound
	}
	f.items[item.ID] = item
	return nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	item, ok := f.items[id]
	if !ok {
		return ErrItemNotFound
	}
	item.Status = status
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.items[id]; !ok {
		return ErrItemNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter *Filter) ([]*Item, error) {
	out := []*Item{}
	for _, item := range f.items {
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, ids []uuid.UUID) ([]*Item, error) {
	out := []*Item{}
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, ids []uuid.UUID, status Status) error {
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			item.Status = status
		}
	}
	return nil
}

type fakeCategoryRepo struct {
	categories map[uuid.UUID]*category.Category
}

func (f *fakeCategoryRepo) Create(ctx context.Context, c *category.Category) error {
	f.categories[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	return f.categories[id], nil
}

func (f *fakeCategoryRepo) GetByName(ctx context.Context, name string) (*category.Category, error) {
	for _, c := range f.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, c *category.Category) error {
	f.categories[c.ID] = c
	return nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryRepo) List(ctx context.Context, typ *category.Type) ([]*category.Category, error) {
	out := []*category.Category{}
	for _, c := range f.categories {
		out = append(out, c)
	}
	return out, nil
}

type fakeStorage struct {
	objects map[string][]byte
}

func (f *fakeStorage) Put(ctx context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) GetURL(key string) string {
	return "https://cdn.example.com/" + key
}

func newTestService() (*Service, *fakeRepo, *fakeCategoryRepo, *fakeStorage) {
	repo := newFakeRepo()
	catRepo := &fakeCategoryRepo{categories: map[uuid.UUID]*category.Category{}}
	store := &fakeStorage{objects: map[string][]byte{}}
	svc := NewService(repo, catRepo, store, imaging.NewProcessor(100))
	return svc, repo, catRepo, store
}

func seedCategory(catRepo *fakeCategoryRepo, name string, typ category.Type) uuid.UUID {
	id := uuid.New()
	catRepo.categories[id] = &category.Category{ID: id, Name: name, Type: typ}
	return id
}

func TestCreateItem(t *testing.T) {
	svc, repo, catRepo, _ := newTestService()
	catID := seedCategory(catRepo, "Superhero", category.TypeCostume)

	item, err := svc.Create(context.Background(), &CreateItemRequest{
		Name:        "Spider Suit",
		CategoryID:  catID.String(),
		Size:        "M",
		Theme:       "superhero",
		PricePerDay: 750,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if item.Status != StatusAvailable {
		t.Errorf("expected default status available, got %s", item.Status)
	}
	if item.CategoryName != "Superhero" {
		t.Errorf("expected joined category name, got %q", item.CategoryName)
	}
	if _, ok := repo.items[item.ID]; !ok {
		t.Error("item not persisted")
	}
}

func TestCreateItemUnknownCategory(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Create(context.Background(), &CreateItemRequest{
		Name:        "Spider Suit",
		CategoryID:  uuid.NewString(),
		PricePerDay: 750,
	})
	if !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestUpdateItemPartial(t *testing.T) {
	svc, repo, catRepo, _ := newTestService()
	catID := seedCategory(catRepo, "Superhero", category.TypeCostume)

	id := uuid.New()
	repo.items[id] = &Item{
		ID:          id,
		Name:        "Spider Suit",
		CategoryID:  catID,
		PricePerDay: 750,
		Status:      StatusAvailable,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	newPrice := 900.0
	updated, err := svc.Update(context.Background(), id, &UpdateItemRequest{
		PricePerDay: &newPrice,
		Status:      string(StatusCleaning),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Name != "Spider Suit" {
		t.Errorf("untouched field changed: %q", updated.Name)
	}
	if updated.PricePerDay != 900 {
		t.Errorf("expected price 900, got %v", updated.PricePerDay)
	}
	if updated.Status != StatusCleaning {
		t.Errorf("expected status cleaning, got %s", updated.Status)
	}
}

func TestUpdateItemNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Update(context.Background(), uuid.New(), &UpdateItemRequest{Name: "Ghost"})
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	return buf.Bytes()
}

func TestUploadImageResizesAndStores(t *testing.T) {
	svc, repo, catRepo, store := newTestService()
	catID := seedCategory(catRepo, "Superhero", category.TypeCostume)

	id := uuid.New()
	repo.items[id] = &Item{ID: id, Name: "Spider Suit", CategoryID: catID, Status: StatusAvailable}

	// Wider than the 100px test limit, must be downscaled
	img := encodePNG(t, 400, 200)

	item, err := svc.UploadImage(context.Background(), id, bytes.NewReader(img))
	if err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}

	key := "items/" + id.String() + ".png"
	stored, ok := store.objects[key]
	if !ok {
		t.Fatalf("image not stored under %q", key)
	}

	decoded, err := png.Decode(bytes.NewReader(stored))
	if err != nil {
		t.Fatalf("stored image is not a PNG: %v", err)
	}
	if w := decoded.Bounds().Dx(); w != 100 {
		t.Errorf("expected width 100 after resize, got %d", w)
	}

	if !item.ImageURL.Valid || item.ImageURL.String != "https://cdn.example.com/"+key {
		t.Errorf("image URL not set: %+v", item.ImageURL)
	}
}

func TestUploadImageRejectsGarbage(t *testing.T) {
	svc, repo, catRepo, _ := newTestService()
	catID := seedCategory(catRepo, "Superhero", category.TypeCostume)

	id := uuid.New()
	repo.items[id] = &Item{ID: id, Name: "Spider Suit", CategoryID: catID, Status: StatusAvailable}

	_, err := svc.UploadImage(context.Background(), id, strings.NewReader("definitely not an image"))
	if !errors.Is(err, ErrUnsupportedImageType) {
		t.Errorf("expected ErrUnsupportedImageType, got %v", err)
	}
}
