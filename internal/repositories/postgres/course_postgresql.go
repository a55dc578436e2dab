package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
)

type CoursePostgreSQL struct {
	baseRepository
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{baseRepository{db: db}}
}

// ===== COURSES =====

func (c *CoursePostgreSQL) CreateCourse(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Create(course).Error
}

func (c *CoursePostgreSQL) GetCourseByID(ctx context.Context, tx *gorm.DB, id string) (*models.Course, error) {
	db := c.getDB(tx)
	var course models.Course
	if err := db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) GetCourseBySlug(ctx context.Context, tx *gorm.DB, slug string) (*models.Course, error) {
	db := c.getDB(tx)
	var course models.Course
	if err := db.WithContext(ctx).First(&course, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) GetCourseOutline(ctx context.Context, tx *gorm.DB, courseID string) ([]models.Module, error) {
	db := c.getDB(tx)
	var modules []models.Module
	err := db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order(orderAsc).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order(orderAsc)
		}).
		Find(&modules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load course outline: %w", err)
	}
	return modules, nil
}

// ===== MODULES =====

func (c *CoursePostgreSQL) CreateModule(ctx context.Context, tx *gorm.DB, module *models.Module) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Create(module).Error
}

func (c *CoursePostgreSQL) GetModule(ctx context.Context, tx *gorm.DB, id string) (*models.Module, error) {
	db := c.getDB(tx)
	var module models.Module
	if err := db.WithContext(ctx).Preload("Course").First(&module, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

// ===== LESSONS =====

func (c *CoursePostgreSQL) CreateLesson(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).Create(lesson).Error
}

func (c *CoursePostgreSQL) GetLessonContext(ctx context.Context, tx *gorm.DB, lessonID, userID string) (*repositories.LessonContext, error) {
	return c.lessonContext(ctx, c.getDB(tx), "lessons.id = ?", lessonID, userID)
}

func (c *CoursePostgreSQL) GetLessonContextBySlug(ctx context.Context, tx *gorm.DB, lessonSlug, userID string) (*repositories.LessonContext, error) {
	return c.lessonContext(ctx, c.getDB(tx), "lessons.slug = ?", lessonSlug, userID)
}

func (c *CoursePostgreSQL) lessonContext(ctx context.Context, db *gorm.DB, where string, arg, userID string) (*repositories.LessonContext, error) {
	var lesson models.Lesson
	if err := db.WithContext(ctx).
		Preload("Module.Course").
		Where(where, arg).
		First(&lesson).Error; err != nil {
		return nil, err
	}
	if lesson.Module == nil || lesson.Module.Course == nil {
		return nil, fmt.Errorf("lesson %s has no course: %w", lesson.ID, gorm.ErrRecordNotFound)
	}

	enrolled, err := c.HasActiveEnrollment(ctx, db, userID, lesson.Module.CourseID)
	if err != nil {
		return nil, err
	}

	return &repositories.LessonContext{
		Lesson:              &lesson,
		Module:              lesson.Module,
		Course:              lesson.Module.Course,
		HasActiveEnrollment: enrolled,
	}, nil
}

func (c *CoursePostgreSQL) GetLastLessonOrder(ctx context.Context, tx *gorm.DB, moduleID string) (int, error) {
	db := c.getDB(tx)
	var result struct {
		MaxOrder sql.NullInt64
	}
	err := db.WithContext(ctx).
		Model(&models.Lesson{}).
		Select(`MAX("order") AS max_order`).
		Where("module_id = ?", moduleID).
		Scan(&result).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get last lesson order: %w", err)
	}
	return int(result.MaxOrder.Int64), nil
}

func (c *CoursePostgreSQL) CountLessons(ctx context.Context, tx *gorm.DB, courseID string) (int64, error) {
	db := c.getDB(tx)
	var count int64
	err := courseLessons(db.WithContext(ctx).Model(&models.Lesson{}), courseID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count lessons: %w", err)
	}
	return count, nil
}

// ===== ENROLLMENTS =====

func (c *CoursePostgreSQL) UpsertEnrollment(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	db := c.getDB(tx)
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(enrollment).Error
}

func (c *CoursePostgreSQL) HasActiveEnrollment(ctx context.Context, tx *gorm.DB, userID, courseID string) (bool, error) {
	db := c.getDB(tx)
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, models.EnrollmentActive).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return count > 0, nil
}

func (c *CoursePostgreSQL) ListActiveEnrollments(ctx context.Context, tx *gorm.DB, userID string) ([]models.Enrollment, error) {
	db := c.getDB(tx)
	var enrollments []models.Enrollment
	err := db.WithContext(ctx).
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.user_id = ? AND enrollments.status = ? AND courses.published = ?",
			userID, models.EnrollmentActive, true).
		Preload("Course").
		Order("enrollments.created_at ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return enrollments, nil
}
