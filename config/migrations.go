package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/chantier/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250612_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Project{}, &models.ProjectMember{})
			},
		},
		{
			ID: "20250612_create_reference_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Location{}, &models.Signage{},
					&models.Subcontractor{}, &models.Activity{})
			},
		},
		{
			ID: "20250619_create_planning_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.PlanningRecord{}, &models.PlanningActivity{})
			},
		},
		{
			ID: "20250626_create_journal_table",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.JournalEntry{})
			},
		},
		{
			ID: "20250810_planning_date_index",
			Migrate: func(tx *gorm.DB) error {
				// Week views always filter on (project_id, date)
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_planning_project_date ON planning_records (project_id, date)").Error
			},
		},
	})

	return m.Migrate()
}
