package scope

import "gorm.io/gorm"

func OrderByUpdatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("updated_at DESC")
}

func OrderByTimestampAsc(db *gorm.DB) *gorm.DB {
	return db.Order(`"timestamp" ASC`)
}

func OrderByAddedAsc(db *gorm.DB) *gorm.DB {
	return db.Order("added_at ASC")
}
