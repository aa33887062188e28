package db

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetSetting returns the option table stored for an extension.
func GetSetting(conn *gorm.DB, extension string) (Setting, bool, error) {
	var record Setting
	err := conn.Where("extension = ?", extension).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Setting{}, false, nil
	}
	if err != nil {
		return Setting{}, false, err
	}
	return record, true, nil
}

// SaveSetting replaces the option table stored for an extension.
func SaveSetting(conn *gorm.DB, extension string, options datatypes.JSON) error {
	record := Setting{Extension: extension, Options: options}
	err := conn.Create(&record).Error
	if err == nil {
		return nil
	}
	if !isUniqueViolation(err) {
		return err
	}
	return conn.Model(&Setting{}).
		Where("extension = ?", extension).
		Update("options", options).Error
}
