// Package db provides database utilities including transaction management and query scopes.
package db

import (
	"gorm.io/gorm"
)

// NotDeleted filters out soft-deleted rows for queries built with Table() or Raw
// joins, where gorm does not apply the DeletedAt filter on its own.
//
//	db.Table("tickets").Scopes(db.NotDeleted()).Where("status = ?", status).Count(&n)
func NotDeleted() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted_at IS NULL")
	}
}

// ForProject narrows a ticket query to one project. An empty projectID matches all projects.
func ForProject(projectID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if projectID == "" {
			return db
		}
		return db.Where("project_id = ?", projectID)
	}
}
