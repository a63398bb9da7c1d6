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
	"gorm.io/gorm/clause"
)

type deviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) repository.DeviceRepository {
	return &deviceRepository{db: db}
}

// UpsertDevice relies on idx_user_devices_user_device. The conflict target
// also matches soft-deleted rows, so a device removed from the list comes
// back under its old id instead of failing the unique index.
func (repo *deviceRepository) UpsertDevice(ctx context.Context, device *entity.UserDevice) error {
	row := deviceRow(device)

	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// A shared browser hands its token to whoever signed in last.
		if err := tx.Model(&model.UserDeviceModel{}).
			Where("fcm_token = ? AND user_id <> ?", row.FCMToken, row.UserID).
			Update("is_active", false).Error; err != nil {
			return errors.Wrap(err, "failed to release fcm token")
		}

		return tx.Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "device_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"fcm_token":  row.FCMToken,
					"platform":   row.Platform,
					"is_active":  true,
					"updated_at": row.UpdatedAt,
					"deleted_at": nil,
				}),
			},
			clause.Returning{Columns: []clause.Column{{Name: "id"}, {Name: "created_at"}}},
		).Create(row).Error
	})
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert device")
	}

	device.ID = row.ID
	device.CreatedAt = row.CreatedAt
	device.IsActive = true

	return nil
}

func (repo *deviceRepository) FindDeviceByID(ctx context.Context, id uuid.UUID) (*entity.UserDevice, error) {
	var row model.UserDeviceModel
	if err := repo.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDeviceNotFound
		}

		return nil, errors.Wrap(err, "failed to find device")
	}

	return toDeviceDomain(&row), nil
}

func (repo *deviceRepository) FindActiveDevicesByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserDevice, error) {
	var rows []model.UserDeviceModel
	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND is_active", userID).
		Order("updated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list active devices")
	}

	devices := make([]*entity.UserDevice, len(rows))
	for i := range rows {
		devices[i] = toDeviceDomain(&rows[i])
	}

	return devices, nil
}

// DeactivateTokens is called after FCM reports tokens as unregistered.
func (repo *deviceRepository) DeactivateTokens(ctx context.Context, fcmTokens []string) error {
	if len(fcmTokens) == 0 {
		return nil
	}

	err := repo.db.WithContext(ctx).
		Model(&model.UserDeviceModel{}).
		Where("fcm_token IN ?", fcmTokens).
		Update("is_active", false).Error

	return errors.Wrap(err, "failed to deactivate device tokens")
}

func (repo *deviceRepository) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Delete(&model.UserDeviceModel{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete device")
	}
	if result.RowsAffected == 0 {
		return repository.ErrDeviceNotFound
	}

	return nil
}

func deviceRow(d *entity.UserDevice) *model.UserDeviceModel {
	return &model.UserDeviceModel{
		ID:        d.ID,
		UserID:    d.UserID,
		FCMToken:  d.FCMToken,
		DeviceID:  d.DeviceID,
		Platform:  d.Platform,
		IsActive:  true,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toDeviceDomain(m *model.UserDeviceModel) *entity.UserDevice {
	return &entity.UserDevice{
		ID:        m.ID,
		UserID:    m.UserID,
		FCMToken:  m.FCMToken,
		DeviceID:  m.DeviceID,
		Platform:  m.Platform,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
