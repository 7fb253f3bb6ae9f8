package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/almeidaGustavo05/product-catalog-API/internal/handlers"
	"github.com/almeidaGustavo05/product-catalog-API/internal/middleware"
	"github.com/almeidaGustavo05/product-catalog-API/internal/models"
	"github.com/almeidaGustavo05/product-catalog-API/internal/repositories"
	"github.com/almeidaGustavo05/product-catalog-API/internal/services"
	"github.com/almeidaGustavo05/product-catalog-API/internal/storage"
	"github.com/almeidaGustavo05/product-catalog-API/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "catalog.db")
	viper.SetDefault("JWT_SECRET", "dev_secret_change_me")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables catalog events
	viper.SetDefault("IMAGE_STORAGE_PATH", "./uploads/images")
	viper.SetDefault("IMAGE_BASE_URL", "/images")
	viper.SetDefault("SEED_DATA", true)
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	db, err := openDatabase(viper.GetString("DB_DRIVER"), viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Image Store ---
	imageStore, err := storage.NewLocalImageStore(
		viper.GetString("IMAGE_STORAGE_PATH"),
		viper.GetString("IMAGE_BASE_URL"),
	)
	if err != nil {
		log.Fatalf("Failed to initialize image store: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	} else {
		log.Println("RABBITMQ_URL not set, catalog events disabled")
	}

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)

	if viper.GetBool("SEED_DATA") {
		seedProducts(productRepo)
	}

	// --- Services ---
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}
	productService := services.NewProductService(productRepo, imageStore, publisher)
	authService := services.NewAuthService(userRepo, viper.GetString("JWT_SECRET"))

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(productService)
	authHandler := handlers.NewAuthHandler(authService)

	// --- Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	// Serve stored image blobs directly as well
	app.Static(viper.GetString("IMAGE_BASE_URL"), viper.GetString("IMAGE_STORAGE_PATH"))

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	// Catalog reads are public; mutations require a valid token.
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(apiV1, protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Catalog Event Consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for catalog events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received catalog event (tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeCatalogEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase opens the configured GORM backend. SQLite keeps local
// development dependency-free; PostgreSQL is the production driver.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
}

// seedProducts populates an empty catalog with some demo data.
func seedProducts(repo repositories.ProductRepository) {
	existing, err := repo.GetAll()
	if err != nil || len(existing) > 0 {
		return
	}

	seeds := []struct {
		name, description string
		price             float64
		category          string
	}{
		{"Laptop", "High performance laptop", 1200.00, "Electronics"},
		{"Keyboard", "Mechanical keyboard", 75.00, "Electronics"},
		{"Clean Architecture", "A craftsman's guide to software structure", 35.00, "Books"},
	}

	for _, seed := range seeds {
		product, err := models.NewProduct(seed.name, seed.description, seed.price, seed.category)
		if err != nil {
			log.Printf("Error building seed product %s: %v", seed.name, err)
			continue
		}
		if err := repo.Create(product); err != nil {
			log.Printf("Error seeding product %s: %v", seed.name, err)
			continue
		}
		log.Printf("Seeded product: %s (ID: %s)", product.Name, product.ID)
	}
}
