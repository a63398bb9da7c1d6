package impl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"starmobiles/config"
	deliverycontext "starmobiles/internal/delivery/context"
	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/repository"
	"starmobiles/internal/domain/service"
	"starmobiles/internal/usecase"
	"starmobiles/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	defaultMaxImageBytes = 5 << 20
	productImagePrefix   = "products/"
	maxProductRating     = 5
)

// imageExtensions maps accepted image content types to object key suffixes.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type productService struct {
	productRepo   repository.ProductRepository
	imageStorage  service.ImageStorage
	maxImageBytes int64
	logger        *slog.Logger
}

// ProductServiceParams holds dependencies for ProductService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	ProductRepo  repository.ProductRepository
	ImageStorage service.ImageStorage
	Config       *config.Config
	Logger       *slog.Logger
}

// NewProductService creates the catalog service.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	maxImageBytes := int64(defaultMaxImageBytes)
	if params.Config != nil && params.Config.Storage != nil && params.Config.Storage.MaxImageBytes > 0 {
		maxImageBytes = params.Config.Storage.MaxImageBytes
	}

	return &productService{
		productRepo:   params.ProductRepo,
		imageStorage:  params.ImageStorage,
		maxImageBytes: maxImageBytes,
		logger:        params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *productService) ListProducts(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown category %q", filter.Category)
	}

	products, err := srv.productRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

func (srv *productService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := srv.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, id.String())
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

func (srv *productService) CreateProduct(ctx context.Context, input *usecase.ProductInput) (*entity.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &entity.Product{}
	applyProductInput(product, input)

	if err := srv.productRepo.Create(ctx, product); err != nil {
		srv.log(ctx).Error("Failed to create product", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create product")
	}
	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.String("name", product.DisplayName()))

	return product, nil
}

func (srv *productService) UpdateProduct(ctx context.Context, id uuid.UUID, input *usecase.ProductInput) (*entity.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := srv.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	applyProductInput(product, input)

	if err := srv.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, id.String())
		}
		srv.log(ctx).Error("Failed to update product", slog.Any("productID", id), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to update product")
	}
	srv.log(ctx).Info("Product updated", slog.Any("productID", id))

	return product, nil
}

func (srv *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := srv.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return errors.Wrap(domainerrors.ErrProductNotFound, id.String())
		}

		return errors.Wrap(err, "failed to delete product")
	}
	srv.log(ctx).Info("Product deleted", slog.Any("productID", id))

	return nil
}

// UploadImage stores the picture under a content-addressed key so re-uploads
// of the same file share one object.
func (srv *productService) UploadImage(ctx context.Context, upload *usecase.ImageUpload) (string, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(upload.ContentType, ";")[0]))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", errors.Wrapf(domainerrors.ErrImageInvalid, "content type %q", upload.ContentType)
	}
	if upload.Size > srv.maxImageBytes {
		return "", errors.Wrapf(domainerrors.ErrImageInvalid, "image exceeds %s", util.FormatBytes(srv.maxImageBytes))
	}

	data, err := io.ReadAll(io.LimitReader(upload.Body, srv.maxImageBytes+1))
	if err != nil {
		return "", errors.Wrap(err, "failed to read upload")
	}
	if int64(len(data)) > srv.maxImageBytes {
		return "", errors.Wrapf(domainerrors.ErrImageInvalid, "image exceeds %s", util.FormatBytes(srv.maxImageBytes))
	}
	if sniffed := http.DetectContentType(data); sniffed != contentType {
		return "", errors.Wrapf(domainerrors.ErrImageInvalid, "declared %s but content is %s", contentType, sniffed)
	}

	sum, err := util.Checksum(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	key := productImagePrefix + sum + ext

	url, err := srv.imageStorage.Upload(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		srv.log(ctx).Error("Failed to store product image", slog.String("key", key), slog.Any("error", err))

		return "", errors.Wrap(err, "failed to store image")
	}
	srv.log(ctx).Info("Product image stored", slog.String("key", key), slog.String("size", util.FormatBytes(int64(len(data)))))

	return url, nil
}

// OpenImage only serves keys UploadImage could have produced.
func (srv *productService) OpenImage(ctx context.Context, key string) (*service.StoredImage, error) {
	name, ok := strings.CutPrefix(key, productImagePrefix)
	if !ok || name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") || !isImageExtension(path.Ext(name)) {
		return nil, errors.Wrap(domainerrors.ErrNotFound, key)
	}

	img, err := srv.imageStorage.Open(ctx, key)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			return nil, errors.Wrap(domainerrors.ErrNotFound, key)
		}

		return nil, errors.Wrap(err, "failed to open image")
	}

	return img, nil
}

func isImageExtension(ext string) bool {
	for _, known := range imageExtensions {
		if ext == known {
			return true
		}
	}

	return false
}

func validateProductInput(input *usecase.ProductInput) error {
	var problems []string

	if strings.TrimSpace(input.Brand) == "" {
		problems = append(problems, "brand is required")
	}
	if strings.TrimSpace(input.Model) == "" {
		problems = append(problems, "model is required")
	}
	if input.Price < 0 {
		problems = append(problems, "price must not be negative")
	}
	if !input.Category.IsValid() {
		problems = append(problems, "category must be mobile or accessory")
	}
	if input.Rating != nil && (*input.Rating < 0 || *input.Rating > maxProductRating) {
		problems = append(problems, "rating must be between 0 and 5")
	}
	if input.Stock != nil && *input.Stock < 0 {
		problems = append(problems, "stock must not be negative")
	}

	if len(problems) == 0 {
		return nil
	}

	return domainerrors.ErrValidationFailed.WithDetails(strings.Join(problems, ", "))
}

func applyProductInput(p *entity.Product, input *usecase.ProductInput) {
	p.Brand = strings.TrimSpace(input.Brand)
	p.Model = strings.TrimSpace(input.Model)
	p.Price = input.Price
	p.Category = input.Category
	p.RAM = input.RAM
	p.Storage = input.Storage
	p.Specs = input.Specs
	p.Rating = input.Rating
	p.Stock = input.Stock
	p.Featured = input.Featured
	p.Image = input.Image
}
