package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/alextreichler/localcart/internal/models"
	"github.com/alextreichler/localcart/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const usage = "expected 'add-user', 'add-service' or 'add-menu' subcommand"

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add-user":
		addUser(os.Args[2:])
	case "add-service":
		addItem(models.KindService, os.Args[2:])
	case "add-menu":
		addItem(models.KindMenu, os.Args[2:])
	default:
		fmt.Println(usage)
		os.Exit(1)
	}
}

func openStore() *store.Store {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./localcart.db"
	}

	db, err := store.NewStore(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	// Ensure tables exist if running cli before server
	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to init schema: %v", err)
	}
	return db
}

func addUser(args []string) {
	cmd := flag.NewFlagSet("add-user", flag.ExitOnError)
	fullName := cmd.String("name", "", "Full name of the new user")
	mobile := cmd.String("mobile", "", "Mobile number (login identity)")
	email := cmd.String("email", "", "Email address")
	location := cmd.String("location", "", "Location")
	password := cmd.String("password", "", "Password")
	cmd.Parse(args)

	if *fullName == "" || *mobile == "" || *email == "" || *location == "" || *password == "" {
		fmt.Println("name, mobile, email, location and password are required")
		cmd.PrintDefaults()
		os.Exit(1)
	}

	db := openStore()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		FullName: *fullName,
		Mobile:   *mobile,
		Email:    *email,
		Location: *location,
		Password: string(hashedPassword),
	}
	if err := db.CreateUser(user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}
	fmt.Printf("User %q created with id %d\n", user.FullName, user.ID)
}

func addItem(kind models.ItemKind, args []string) {
	cmd := flag.NewFlagSet("add-"+string(kind), flag.ExitOnError)
	name := cmd.String("name", "", "Item name")
	photo := cmd.String("photo", "", "Photo URL")
	originalPrice := cmd.Float64("price", 0, "Original price")
	discount := cmd.Float64("discount", 0, "Discount amount")
	finalPrice := cmd.Float64("final-price", 0, "Final price override (defaults to price - discount)")
	description := cmd.String("description", "", "Description")
	status := cmd.String("status", "active", "Status (active or inactive)")
	cmd.Parse(args)

	if *name == "" || *originalPrice <= 0 {
		fmt.Println("name and a positive price are required")
		cmd.PrintDefaults()
		os.Exit(1)
	}
	if *status != "active" && *status != "inactive" {
		fmt.Println("status must be 'active' or 'inactive'")
		os.Exit(1)
	}
	if *finalPrice == 0 {
		*finalPrice = *originalPrice - *discount
	}
	if *finalPrice <= 0 {
		fmt.Println("final price must be positive")
		os.Exit(1)
	}

	db := openStore()

	item := &models.CatalogItem{
		Kind:          kind,
		Name:          *name,
		Photo:         *photo,
		OriginalPrice: *originalPrice,
		Discount:      *discount,
		FinalPrice:    *finalPrice,
		Description:   *description,
		Status:        *status,
	}
	if err := db.CreateItem(item); err != nil {
		log.Fatalf("Failed to create item: %v", err)
	}
	fmt.Printf("%s %q created with id %d\n", kind, item.Name, item.ID)
}
