// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kardex/internal/core/id"
	"kardex/internal/core/types"
	"kardex/internal/infrastructure/storage/postgres"
	"kardex/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	poolCfg := postgres.DefaultPoolConfig(dbURL)
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	adminID, err := seedAdminUser(ctx, pool, log)
	if err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log, adminID); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding complete")
}

// seedAdminUser creates the admin account if it does not exist.
func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	var existing id.ID
	err := pool.QueryRow(ctx, `SELECT id FROM app_user WHERE username = 'admin'`).Scan(&existing)
	if err == nil {
		log.Info("admin user already exists")
		return existing, nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Warn("ADMIN_PASSWORD not set, using default (change it)")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil(), fmt.Errorf("hash password: %w", err)
	}

	adminID := id.New()
	_, err = pool.Exec(ctx,
		`INSERT INTO app_user (id, username, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		adminID, "admin", string(hash), time.Now().UTC(),
	)
	if err != nil {
		return id.Nil(), fmt.Errorf("insert admin: %w", err)
	}

	log.Infow("admin user created", "id", adminID)
	return adminID, nil
}

type demoProduct struct {
	name      string
	category  string
	unit      string
	costPrice string
	salePrice string
	minStock  int64
	stock     int64
}

var demoCategories = []string{"Beverages", "Snacks", "Dairy", "Cleaning"}

var demoProducts = []demoProduct{
	{"Cola 500ml", "Beverages", "unit", "0.80", "1.50", 24, 120},
	{"Orange Juice 1L", "Beverages", "unit", "1.20", "2.40", 12, 36},
	{"Mineral Water 1.5L", "Beverages", "unit", "0.40", "0.90", 36, 200},
	{"Potato Chips 150g", "Snacks", "unit", "0.95", "1.80", 20, 75},
	{"Salted Peanuts 200g", "Snacks", "unit", "1.10", "2.10", 15, 40},
	{"Whole Milk 1L", "Dairy", "unit", "0.85", "1.30", 30, 60},
	{"Natural Yogurt 4x125g", "Dairy", "pack", "1.40", "2.50", 10, 25},
	{"Dish Soap 750ml", "Cleaning", "unit", "1.25", "2.60", 8, 18},
}

// seedDemoData loads demo categories, products and an opening-stock
// movement per product, all attributed to the admin user.
func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger, adminID id.ID) error {
	categoryIDs := make(map[string]id.ID, len(demoCategories))
	for _, name := range demoCategories {
		catID := id.New()
		_, err := pool.Exec(ctx,
			`INSERT INTO category (id, name) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
			catID, name,
		)
		if err != nil {
			return fmt.Errorf("insert category %s: %w", name, err)
		}
		if err := pool.QueryRow(ctx, `SELECT id FROM category WHERE name = $1`, name).Scan(&catID); err != nil {
			return fmt.Errorf("lookup category %s: %w", name, err)
		}
		categoryIDs[name] = catID
	}
	log.Infow("categories seeded", "count", len(categoryIDs))

	for _, p := range demoProducts {
		var exists int
		err := pool.QueryRow(ctx, `SELECT 1 FROM product WHERE name = $1`, p.name).Scan(&exists)
		if err == nil {
			continue
		}

		productID := id.New()
		_, err = pool.Exec(ctx,
			`INSERT INTO product (id, name, category_id, unit, cost_price, sale_price, min_stock, current_stock)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			productID, p.name, categoryIDs[p.category], p.unit,
			types.MustMoney(p.costPrice), types.MustMoney(p.salePrice), p.minStock, p.stock,
		)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", p.name, err)
		}

		// Opening balance as a ledger row so history starts consistent.
		_, err = pool.Exec(ctx,
			`INSERT INTO stock_movement (id, type, reason, qty, direction, product_id, user_id, created_at)
			 VALUES ($1, 'IN', 'COUNT', $2, NULL, $3, $4, $5)`,
			id.New(), p.stock, productID, adminID, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("insert opening movement for %s: %w", p.name, err)
		}
	}
	log.Infow("products seeded", "count", len(demoProducts))

	return nil
}
