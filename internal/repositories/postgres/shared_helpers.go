package postgres

import (
	"gorm.io/gorm"
)

// baseRepository resolves the handle a call runs on: the caller's transaction when given
type baseRepository struct {
	db *gorm.DB
}

func (b baseRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return b.db
}

// orderAsc sorts by the reserved "order" column
const orderAsc = `"order" ASC`

// courseLessons restricts a query on lessons to one course
func courseLessons(db *gorm.DB, courseID string) *gorm.DB {
	return db.Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ?", courseID)
}
