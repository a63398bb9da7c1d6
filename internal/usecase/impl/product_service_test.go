package impl

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/repository"
	"starmobiles/internal/domain/service"
	mockRepo "starmobiles/internal/mocks/repository"
	mockSvc "starmobiles/internal/mocks/service"
	"starmobiles/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func createTestProductService(t *testing.T) (usecase.ProductUsecase, *mockRepo.MockProductRepository, *mockSvc.MockImageStorage) {
	productRepo := mockRepo.NewMockProductRepository(t)
	storage := mockSvc.NewMockImageStorage(t)

	cfg := newTestConfig(0)
	svc := NewProductService(ProductServiceParams{
		ProductRepo:  productRepo,
		ImageStorage: storage,
		Config:       cfg,
		Logger:       newDiscardLogger(),
	})
	svc.(*productService).maxImageBytes = 64

	return svc, productRepo, storage
}

func TestProductService_ListProducts(t *testing.T) {
	svc, productRepo, _ := createTestProductService(t)
	ctx := context.Background()
	filter := entity.ProductFilter{Category: entity.CategoryAccessory}

	productRepo.On("List", ctx, filter).Return([]*entity.Product{{Brand: "boAt"}}, nil).Once()

	products, err := svc.ListProducts(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	_, err = svc.ListProducts(ctx, entity.ProductFilter{Category: "tablet"})
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestProductService_CreateProduct(t *testing.T) {
	svc, productRepo, _ := createTestProductService(t)
	ctx := context.Background()

	productRepo.On("Create", ctx, mock.MatchedBy(func(p *entity.Product) bool {
		return p.Brand == "OnePlus" && p.Model == "12R" && p.Price == 39999
	})).Return(nil).Once()

	product, err := svc.CreateProduct(ctx, &usecase.ProductInput{
		Brand:    " OnePlus ",
		Model:    "12R",
		Price:    39999,
		Category: entity.CategoryMobile,
		RAM:      ptr("8GB"),
		Rating:   ptr(4.4),
	})
	require.NoError(t, err)
	assert.Equal(t, "OnePlus 12R", product.DisplayName())
}

func TestProductService_CreateProduct_Validation(t *testing.T) {
	svc, _, _ := createTestProductService(t)

	_, err := svc.CreateProduct(context.Background(), &usecase.ProductInput{
		Brand:    "Nokia",
		Price:    -1,
		Category: "tablet",
		Rating:   ptr(7.0),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	details := appErrorDetails(t, err)
	for _, want := range []string{"model is required", "price must not be negative", "category", "rating"} {
		assert.Contains(t, details, want)
	}
}

func TestProductService_GetProduct_NotFound(t *testing.T) {
	svc, productRepo, _ := createTestProductService(t)
	ctx := context.Background()
	id := uuid.New()

	productRepo.On("FindByID", ctx, id).Return(nil, repository.ErrProductNotFound).Once()

	_, err := svc.GetProduct(ctx, id)
	assert.ErrorIs(t, err, domainerrors.ErrProductNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	svc, productRepo, _ := createTestProductService(t)
	ctx := context.Background()
	id := uuid.New()

	productRepo.On("Delete", ctx, id).Return(nil).Once()

	require.NoError(t, svc.DeleteProduct(ctx, id))
}

func TestProductService_UploadImage(t *testing.T) {
	svc, _, storage := createTestProductService(t)
	ctx := context.Background()

	storage.On("Upload", ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "products/") && strings.HasSuffix(key, ".png")
	}), "image/png", mock.Anything).Return("https://cdn.starmobiles.test/products/abc.png", nil).Once()

	url, err := svc.UploadImage(ctx, &usecase.ImageUpload{
		Filename:    "phone.png",
		ContentType: "image/png",
		Size:        int64(len(pngHeader)),
		Body:        bytes.NewReader(pngHeader),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.starmobiles.test/products/abc.png", url)
}

func TestProductService_UploadImage_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		upload *usecase.ImageUpload
	}{
		{
			name:   "unsupported type",
			upload: &usecase.ImageUpload{ContentType: "application/pdf", Body: bytes.NewReader([]byte("%PDF-1.4"))},
		},
		{
			name:   "declared size too large",
			upload: &usecase.ImageUpload{ContentType: "image/png", Size: 65, Body: bytes.NewReader(pngHeader)},
		},
		{
			name:   "body larger than declared",
			upload: &usecase.ImageUpload{ContentType: "image/png", Size: 1, Body: bytes.NewReader(bytes.Repeat(pngHeader, 10))},
		},
		{
			name:   "content does not match type",
			upload: &usecase.ImageUpload{ContentType: "image/jpeg", Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := createTestProductService(t)

			_, err := svc.UploadImage(context.Background(), tt.upload)
			assert.ErrorIs(t, err, domainerrors.ErrImageInvalid)
		})
	}
}

func TestProductService_OpenImage(t *testing.T) {
	svc, _, storage := createTestProductService(t)
	ctx := context.Background()

	img := &service.StoredImage{Body: io.NopCloser(bytes.NewReader(pngHeader)), ContentType: "image/png"}
	storage.On("Open", ctx, "products/abc.png").Return(img, nil).Once()
	storage.On("Open", ctx, "products/gone.webp").Return(nil, service.ErrImageNotFound).Once()

	got, err := svc.OpenImage(ctx, "products/abc.png")
	require.NoError(t, err)
	assert.Same(t, img, got)

	_, err = svc.OpenImage(ctx, "products/gone.webp")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	for _, key := range []string{"", "products/", "avatars/a.png", "products/../config.yaml", "products/a/b.png", "products/notes.txt"} {
		_, err := svc.OpenImage(ctx, key)
		assert.ErrorIs(t, err, domainerrors.ErrNotFound, key)
	}
}
