package main

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"exhibae/internal/exhibitions"
	"exhibae/internal/shared/config"
	"exhibae/internal/shared/database"
	"exhibae/internal/stalls"
	"exhibae/internal/users"
)

// Seeds a local database with one organiser, one brand, one manager,
// an exhibition and a small floor plan, so the API is explorable right
// after `make run`.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("failed to initialize databases: %v", err)
	}
	defer db.Close()

	pg := db.GetPostgreSQL()

	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	organiser := users.User{
		ID:       uuid.New(),
		FullName: "Olivia Organiser",
		Email:    "organiser@example.com",
		Password: string(password),
		Role:     users.RoleOrganiser,
	}
	brand := users.User{
		ID:          uuid.New(),
		FullName:    "Bella Brand",
		CompanyName: "Bella Home Decor",
		Email:       "brand@example.com",
		Password:    string(password),
		Role:        users.RoleBrand,
	}
	manager := users.User{
		ID:       uuid.New(),
		FullName: "Max Manager",
		Email:    "manager@example.com",
		Password: string(password),
		Role:     users.RoleManager,
	}

	for _, user := range []users.User{organiser, brand, manager} {
		if err := pg.Where("email = ?", user.Email).FirstOrCreate(&user).Error; err != nil {
			log.Fatalf("failed to seed user %s: %v", user.Email, err)
		}
	}

	start := time.Now().AddDate(0, 1, 0)
	exhibition := exhibitions.Exhibition{
		ID:          uuid.New(),
		Title:       "Spring Home & Living Expo",
		Description: "Three days of home decor, furniture and lifestyle brands.",
		OrganiserID: organiser.ID,
		Address:     "Hall 4, Trade Centre",
		City:        "Mumbai",
		State:       "Maharashtra",
		Country:     "India",
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 3),
		Status:      exhibitions.StatusPublished,
	}
	if err := pg.Where("title = ?", exhibition.Title).FirstOrCreate(&exhibition).Error; err != nil {
		log.Fatalf("failed to seed exhibition: %v", err)
	}

	stall := stalls.Stall{
		ID:           uuid.New(),
		ExhibitionID: exhibition.ID,
		Name:         "Standard Booth",
		Description:  "3x3 booth with power and one table.",
		Width:        3,
		Length:       3,
		Unit:         "m",
		Price:        15000,
		Quantity:     10,
	}
	if err := pg.Where("exhibition_id = ? AND name = ?", exhibition.ID, stall.Name).
		FirstOrCreate(&stall).Error; err != nil {
		log.Fatalf("failed to seed stall: %v", err)
	}

	var existing int64
	if err := pg.Model(&stalls.StallInstance{}).Where("stall_id = ?", stall.ID).Count(&existing).Error; err != nil {
		log.Fatalf("failed to count stall instances: %v", err)
	}
	for i := int(existing); i < stall.Quantity; i++ {
		instance := stalls.StallInstance{
			ID:           uuid.New(),
			StallID:      stall.ID,
			ExhibitionID: exhibition.ID,
			InstanceName: fmt.Sprintf("Standard Booth #%d", i+1),
			PositionX:    float64(i%5) * 4,
			PositionY:    float64(i/5) * 4,
			Price:        stall.Price,
			Status:       stalls.StatusAvailable,
			Version:      1,
		}
		if err := pg.Create(&instance).Error; err != nil {
			log.Fatalf("failed to seed stall instance: %v", err)
		}
	}

	log.Println("seed complete")
	log.Println("  organiser@example.com / password123")
	log.Println("  brand@example.com     / password123")
	log.Println("  manager@example.com   / password123")
}
