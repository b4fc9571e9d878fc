package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/tiendago/tienda-backend/config"
	"github.com/tiendago/tienda-backend/internal/app/model"
	"github.com/tiendago/tienda-backend/internal/app/repository"
	"github.com/tiendago/tienda-backend/internal/db"
	"github.com/tiendago/tienda-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Seeds the database with a demo admin, a demo customer and a small catalog.
// An optional XLSX path imports additional products:
//
//	go run cmd/seed/main.go [xlsx_file_path]
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	if err := seedUsers(userRepo); err != nil {
		log.Fatal("Failed to seed users:", err)
	}

	if err := seedProducts(productRepo); err != nil {
		log.Fatal("Failed to seed products:", err)
	}

	if len(os.Args) > 1 {
		filePath := os.Args[1]
		fmt.Printf("Reading XLSX file: %s\n", filePath)
		products, err := readProductsFromXLSX(filePath)
		if err != nil {
			log.Fatal("Failed to read XLSX:", err)
		}

		fmt.Printf("Products to import: %d\n", len(products))
		for i := range products {
			if err := productRepo.Create(&products[i]); err != nil {
				log.Fatal("Failed to import product:", err)
			}
		}
		fmt.Println("XLSX import completed successfully!")
	}

	fmt.Println("Seed completed successfully!")
}

func seedUsers(userRepo repository.UserRepository) error {
	users := []struct {
		name     string
		email    string
		password string
		role     model.UserRole
	}{
		{"Admin", "admin@tienda.local", "admin123", model.RoleAdmin},
		{"Ana Lopez", "ana@tienda.local", "password123", model.RoleUser},
	}

	for _, u := range users {
		if _, err := userRepo.FindByEmail(u.email); err == nil {
			fmt.Printf("User %s already exists, skipping\n", u.email)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := util.HashPassword(u.password)
		if err != nil {
			return err
		}
		user := &model.User{
			Name:         u.name,
			Email:        u.email,
			PasswordHash: hash,
			Role:         u.role,
		}
		if err := userRepo.Create(user); err != nil {
			return err
		}
		fmt.Printf("Created user %s (%s)\n", u.email, u.role)
	}
	return nil
}

func seedProducts(productRepo repository.ProductRepository) error {
	existing, err := productRepo.FindAll()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		fmt.Printf("Catalog already has %d products, skipping demo products\n", len(existing))
		return nil
	}

	products := []model.Product{
		{
			Name:          "Classic T-Shirt",
			Description:   "Plain cotton t-shirt",
			Price:         10,
			StockQuantity: 50,
			Category:      "clothing",
		},
		{
			Name:          "Coffee Mug",
			Description:   "Ceramic mug, 350ml",
			Price:         5,
			StockQuantity: 100,
			Category:      "home",
		},
		{
			Name:          "Wireless Headphones",
			Description:   "Over-ear bluetooth headphones",
			Price:         60,
			StockQuantity: 20,
			Category:      "electronics",
		},
	}

	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			return err
		}
		fmt.Printf("Created product %s\n", products[i].Name)
	}
	return nil
}

func readProductsFromXLSX(filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("XLSX file has no data rows")
	}

	// Expected columns: name, description, price, stock, category
	var products []model.Product
	for i, row := range rows[1:] {
		if len(row) < 3 || row[0] == "" {
			continue
		}

		price, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price %q", i+2, row[2])
		}

		stock := 0
		if len(row) > 3 && row[3] != "" {
			stock, err = strconv.Atoi(row[3])
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid stock %q", i+2, row[3])
			}
		}

		category := ""
		if len(row) > 4 {
			category = row[4]
		}

		products = append(products, model.Product{
			Name:          row[0],
			Description:   row[1],
			Price:         price,
			StockQuantity: stock,
			Category:      category,
		})
	}

	return products, nil
}
