package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/assets"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/domain"
	"storefront/internal/logger"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

type seedProduct struct {
	name        string
	description string
	price       float64
	stock       int
	category    string
	imageURL    string
}

var seedCategories = []domain.Category{
	{Name: "Electronics", Description: "Phones, laptops and gadgets"},
	{Name: "Fashion", Description: "Clothing, shoes and accessories"},
	{Name: "Home & Living", Description: "Furniture and household goods"},
	{Name: "Sports", Description: "Sporting goods and activewear"},
}

var seedProducts = []seedProduct{
	{"iPhone 15 Pro", "Apple flagship with titanium frame", 999.00, 25, "Electronics", "https://picsum.photos/seed/iphone/640/480.jpg"},
	{"MacBook Air M3", "Thin and light 13-inch laptop", 1099.00, 12, "Electronics", "https://picsum.photos/seed/macbook/640/480.jpg"},
	{"Samsung Galaxy S24", "Android flagship with AI camera", 849.00, 30, "Electronics", "https://picsum.photos/seed/galaxy/640/480.jpg"},
	{"Sony WH-1000XM5", "Noise cancelling over-ear headphones", 348.00, 40, "Electronics", "https://picsum.photos/seed/sony/640/480.jpg"},
	{"iPad Air", "10.9-inch tablet for work and play", 599.00, 18, "Electronics", "https://picsum.photos/seed/ipad/640/480.jpg"},
	{"Nike Air Max 270", "Cushioned everyday running shoe", 150.00, 50, "Fashion", "https://picsum.photos/seed/airmax/640/480.jpg"},
	{"Nike Dri-FIT Tee", "Breathable training t-shirt", 30.00, 120, "Fashion", "https://picsum.photos/seed/tee/640/480.jpg"},
	{"Levi's 501 Jeans", "Classic straight fit denim", 70.00, 60, "Fashion", "https://picsum.photos/seed/jeans/640/480.jpg"},
	{"Adidas Ultraboost", "Responsive running shoe", 180.00, 35, "Fashion", "https://picsum.photos/seed/boost/640/480.jpg"},
	{"Ray-Ban Wayfarer", "Iconic acetate sunglasses", 161.00, 22, "Fashion", "https://picsum.photos/seed/rayban/640/480.jpg"},
	{"Dyson V15 Vacuum", "Cordless vacuum with laser dust detection", 749.00, 8, "Home & Living", "https://picsum.photos/seed/dyson/640/480.jpg"},
	{"Philips Hue Starter Kit", "Smart lighting for three rooms", 199.00, 15, "Home & Living", "https://picsum.photos/seed/hue/640/480.jpg"},
	{"Nespresso Vertuo", "Capsule coffee machine", 159.00, 20, "Home & Living", "https://picsum.photos/seed/coffee/640/480.jpg"},
	{"IKEA Markus Chair", "Ergonomic office chair", 229.00, 10, "Home & Living", "https://picsum.photos/seed/chair/640/480.jpg"},
	{"Le Creuset Dutch Oven", "5.5 quart enameled cast iron", 420.00, 6, "Home & Living", "https://picsum.photos/seed/pot/640/480.jpg"},
	{"Wilson Evolution Basketball", "Official size indoor game ball", 65.00, 45, "Sports", "https://picsum.photos/seed/ball/640/480.jpg"},
	{"Yonex Badminton Racket", "Lightweight graphite frame", 110.00, 28, "Sports", "https://picsum.photos/seed/racket/640/480.jpg"},
	{"Manduka Yoga Mat", "6mm high density mat", 88.00, 33, "Sports", "https://picsum.photos/seed/yoga/640/480.jpg"},
	{"Garmin Forerunner 265", "GPS running watch with AMOLED display", 449.00, 14, "Sports", "https://picsum.photos/seed/garmin/640/480.jpg"},
	{"Speedo Swim Goggles", "Anti-fog competition goggles", 25.00, 80, "Sports", "https://picsum.photos/seed/goggles/640/480.jpg"},
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbService.Close()

	if err := database.RunMigrations(dbService.DB(), "migrations", log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	assetStore, err := assets.NewDiskStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes, log)
	if err != nil {
		log.Fatal("Failed to initialize asset store", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	productRepo := repository.NewProductRepository(dbService.DB())
	categoryRepo := repository.NewCategoryRepository(dbService.DB())

	// Skip when the catalog is already populated
	_, total, err := productRepo.List(ctx, repository.ProductFilter{Page: 1, PageSize: 1})
	if err != nil {
		log.Fatal("Failed to inspect catalog", zap.Error(err))
	}
	if total > 0 {
		log.Info("Catalog already seeded, nothing to do", zap.Int("products", total))
		return
	}

	categoryIDs := make(map[string]int64)
	for i := range seedCategories {
		category := seedCategories[i]
		if err := categoryRepo.Create(ctx, &category); err != nil {
			log.Fatal("Failed to seed category", zap.String("name", category.Name), zap.Error(err))
		}
		categoryIDs[category.Name] = category.ID
		log.Info("Seeded category", zap.String("name", category.Name), zap.Int64("id", category.ID))
	}

	client := &http.Client{Timeout: 30 * time.Second}

	for _, sp := range seedProducts {
		image := downloadImage(ctx, client, assetStore, sp.imageURL, log)

		product := &domain.Product{
			Name:        sp.name,
			Description: sp.description,
			Price:       sp.price,
			Stock:       sp.stock,
			Image:       image,
			CategoryID:  categoryIDs[sp.category],
		}

		if err := productRepo.Create(ctx, product); err != nil {
			log.Fatal("Failed to seed product", zap.String("name", sp.name), zap.Error(err))
		}
		log.Info("Seeded product", zap.String("name", sp.name), zap.Int64("id", product.ID))
	}

	log.Info("Seeding complete",
		zap.Int("categories", len(seedCategories)),
		zap.Int("products", len(seedProducts)),
	)
}

// downloadImage fetches a demo image into the asset store. Failures are
// tolerated: the product is simply seeded without an image.
func downloadImage(ctx context.Context, client *http.Client, store assets.Store, url string, log *zap.Logger) *string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Warn("Skipping image", zap.String("url", url), zap.Error(err))
		return nil
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Warn("Skipping image", zap.String("url", url), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("Skipping image",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return nil
	}

	name, err := store.Save(url, resp.Body)
	if err != nil {
		log.Warn("Skipping image", zap.String("url", url), zap.Error(err))
		return nil
	}

	return &name
}
