package scope

import "gorm.io/gorm"

// WithSoftDelete includes soft deleted rows.
func WithSoftDelete(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

// ExcludeSoftDelete is the default behaviour made explicit, for raw joins
// where gorm does not add the filter itself.
func ExcludeSoftDelete(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table + ".deleted_at IS NULL")
	}
}
