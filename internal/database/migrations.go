package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// AddIndexes adds indexes for the hot read paths. AutoMigrate already creates
// the unique indexes declared on the models; these cover filtering and sorting.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Catalog listing filters on status + accepting flag, sorts by start time
		{"tasks", "idx_tasks_status_accepting", "status, is_accepting_applications"},
		{"tasks", "idx_tasks_organizer_id", "organizer_id"},
		{"tasks", "idx_tasks_start_time", "start_time"},
		{"tasks", "idx_tasks_cause_focus", "cause_focus"},

		// Application read paths
		{"applications", "idx_applications_applicant_id", "applicant_id"},
		{"applications", "idx_applications_task_id", "task_id"},
		{"applications", "idx_applications_status", "status"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
