package config

import (
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"p9e.in/chantier/models"
)

// SeedReferenceData creates the default admin account and, for a fresh
// database, a demo chantier with an activity catalogue so the planning screen
// is usable immediately. Skips anything that already exists.
func SeedReferenceData() {
	SeedAdminUser()

	var count int64
	DB.Model(&models.Project{}).Count(&count)
	if count > 0 {
		return
	}

	log.Println("Seeding demo chantier and activity catalogue...")

	project := models.Project{
		Name:        "Chantier de démonstration",
		Code:        "DEMO",
		Description: "Projet créé automatiquement au premier démarrage",
	}
	if err := DB.Create(&project).Error; err != nil {
		log.Printf("Warning: could not seed demo project: %v", err)
		return
	}

	activities := []models.Activity{
		{ProjectID: project.ID, Name: "Rabotage", Unit: "m²"},
		{ProjectID: project.ID, Name: "Enrobés", Unit: "t"},
		{ProjectID: project.ID, Name: "Marquage au sol", Unit: "ml"},
		{ProjectID: project.ID, Name: "Terrassement", Unit: "m³"},
		{ProjectID: project.ID, Name: "Pose de bordures", Unit: "ml"},
		{ProjectID: project.ID, Name: "Signalisation verticale", Unit: "u"},
	}
	for _, a := range activities {
		if err := DB.Create(&a).Error; err != nil {
			log.Printf("Warning: could not seed activity %q: %v", a.Name, err)
		}
	}

	signages := []models.Signage{
		{ProjectID: project.ID, Name: "Basculement voie gauche"},
		{ProjectID: project.ID, Name: "Basculement voie droite"},
		{ProjectID: project.ID, Name: "Fermeture de bretelle"},
	}
	for _, s := range signages {
		if err := DB.Create(&s).Error; err != nil {
			log.Printf("Warning: could not seed signage %q: %v", s.Name, err)
		}
	}

	log.Println("Demo chantier seeded")
}

// SeedAdminUser creates the initial admin account if no user exists yet.
// Credentials come from ADMIN_PHONE / ADMIN_PASSWORD, with dev defaults.
func SeedAdminUser() {
	var existing models.User
	err := DB.Where("role = ?", "admin").First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Warning: could not check for admin user: %v", err)
		return
	}

	phone := os.Getenv("ADMIN_PHONE")
	if phone == "" {
		phone = "0600000000"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: could not hash admin password: %v", err)
		return
	}

	admin := models.User{
		Name:         "Administrateur",
		Email:        "admin@chantier.local",
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         "admin",
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Warning: could not seed admin user: %v", err)
		return
	}
	log.Println("Admin user seeded")
}
