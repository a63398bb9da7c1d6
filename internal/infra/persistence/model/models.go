// Package model holds the GORM persistence models.
package model

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&UserModel{},
		&ProfileModel{},
		&AuthenticationModel{},
		&RefreshTokenModel{},
		&ProductModel{},
		&CartItemModel{},
		&BookingModel{},
		&ProductOrderModel{},
		&UserDeviceModel{},
	}
}
