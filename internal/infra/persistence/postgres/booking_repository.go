package postgres

import (
	"context"

	"starmobiles/internal/domain/entity"
	domainerrors "starmobiles/internal/domain/errors"
	"starmobiles/internal/domain/repository"
	"starmobiles/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// bookingRepository implements the repository.BookingRepository interface.
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository is the constructor for bookingRepository.
func NewBookingRepository(db *gorm.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func (repo *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	bookingM := fromBookingDomain(booking)

	if err := repo.db.WithContext(ctx).Create(bookingM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required booking information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create booking")
	}

	booking.ID = bookingM.ID
	booking.Status = entity.BookingStatus(bookingM.Status)
	booking.CreatedAt = bookingM.CreatedAt
	booking.UpdatedAt = bookingM.UpdatedAt

	return nil
}

func (repo *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var bookingM model.BookingModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&bookingM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBookingNotFound
		}

		return nil, errors.Wrap(err, "failed to find booking")
	}

	return toBookingDomain(&bookingM), nil
}

func (repo *bookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	return repo.list(ctx, repo.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (repo *bookingRepository) ListAll(ctx context.Context) ([]*entity.Booking, error) {
	return repo.list(ctx, repo.db.WithContext(ctx))
}

func (repo *bookingRepository) list(_ context.Context, query *gorm.DB) ([]*entity.Booking, error) {
	var bookingModels []*model.BookingModel
	if err := query.Order("created_at DESC").Find(&bookingModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list bookings")
	}

	bookings := make([]*entity.Booking, 0, len(bookingModels))
	for _, bookingM := range bookingModels {
		bookings = append(bookings, toBookingDomain(bookingM))
	}

	return bookings, nil
}

// Update writes status and admin notes.
func (repo *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	result := repo.db.WithContext(ctx).
		Model(&model.BookingModel{ID: booking.ID}).
		Updates(map[string]any{
			"status":      string(booking.Status),
			"admin_notes": booking.AdminNotes,
			"updated_at":  booking.UpdatedAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update booking")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBookingNotFound
	}

	return nil
}

func (repo *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.BookingModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete booking")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBookingNotFound
	}

	return nil
}

// CountByStatus groups bookings by status. Statuses without rows are reported as zero.
func (repo *bookingRepository) CountByStatus(ctx context.Context) (map[entity.BookingStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := repo.db.WithContext(ctx).
		Model(&model.BookingModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count bookings")
	}

	counts := make(map[entity.BookingStatus]int64, len(entity.BookingStatuses))
	for _, status := range entity.BookingStatuses {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[entity.BookingStatus(row.Status)] = row.Count
	}

	return counts, nil
}

func toBookingDomain(data *model.BookingModel) *entity.Booking {
	return &entity.Booking{
		ID:            data.ID,
		UserID:        data.UserID,
		CustomerName:  data.CustomerName,
		Phone:         data.Phone,
		Brand:         data.Brand,
		Model:         data.Model,
		ProblemType:   data.ProblemType,
		Description:   data.Description,
		PreferredDate: data.PreferredDate,
		PreferredTime: data.PreferredTime,
		Status:        entity.BookingStatus(data.Status),
		AdminNotes:    data.AdminNotes,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}

func fromBookingDomain(data *entity.Booking) *model.BookingModel {
	status := data.Status
	if status == "" {
		status = entity.BookingPending
	}

	return &model.BookingModel{
		ID:            data.ID,
		UserID:        data.UserID,
		CustomerName:  data.CustomerName,
		Phone:         data.Phone,
		Brand:         data.Brand,
		Model:         data.Model,
		ProblemType:   data.ProblemType,
		Description:   data.Description,
		PreferredDate: data.PreferredDate,
		PreferredTime: data.PreferredTime,
		Status:        string(status),
		AdminNotes:    data.AdminNotes,
		CreatedAt:     data.CreatedAt,
		UpdatedAt:     data.UpdatedAt,
	}
}
