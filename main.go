package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/pnu-resolver/app/config"
	"github.com/pnu-resolver/app/controllers"
	"github.com/pnu-resolver/app/services"
	"github.com/pnu-resolver/internal/index"
	"github.com/pnu-resolver/routes"
)

func main() {
	loadConfig()

	logger := initLogger()
	defer logger.Sync()

	logger.Info("starting PNU resolver service")

	if path := viper.GetString("resolver.config"); path != "" {
		if err := config.Load(path); err != nil {
			logger.Warn("could not load resolver config, using defaults",
				zap.String("path", path), zap.Error(err))
		}
	}

	// Load the reference table. A missing or broken table does not stop the
	// server; it comes up degraded and /health reports it.
	csvPath := viper.GetString("csv.path")
	csvEncoding := viper.GetString("csv.encoding")

	var ix *index.Index
	tableVersion := "none"
	rows, err := index.LoadCSV(csvPath, csvEncoding)
	if err != nil {
		logger.Error("reference table load failed, resolution disabled",
			zap.String("path", csvPath), zap.Error(err))
	} else {
		ix = index.Build(rows)
		tableVersion = fileVersion(csvPath)
		logger.Info("reference table loaded",
			zap.String("path", csvPath),
			zap.Int("rows", ix.Len()),
			zap.Int("duplicates", ix.Duplicates()),
			zap.String("table_version", tableVersion))
	}

	resolveService := services.NewResolveService(ix, tableVersion, logger)

	var mongoDB *mongo.Database
	cacheService := initCache(&mongoDB, tableVersion, logger)
	if mongoDB != nil {
		defer func() {
			if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
				logger.Error("mongo disconnect failed", zap.Error(err))
			}
		}()
	}

	adminService := services.NewAdminService(mongoDB, resolveService, cacheService, logger)

	resolveController := controllers.NewResolveController(resolveService, cacheService, logger)
	adminController := controllers.NewAdminController(adminService, logger)

	if viper.GetString("app.env") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	routes.SetupAllRoutes(router, resolveController, adminController)

	port := viper.GetString("app.port")
	logger.Info("PNU resolver service listening", zap.String("port", port))

	if err := router.Run(":" + port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func loadConfig() {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("csv.path", "data/pnu_code.csv")
	viper.SetDefault("csv.encoding", "utf-8")
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.l1_size", 10000)
	viper.SetDefault("cache.ttl_hours", 24)
	viper.SetDefault("redis.url", "redis://localhost:6379")
	viper.SetDefault("mongo.url", "mongodb://localhost:27017/pnu_resolver")
	viper.SetDefault("mongo.database", "pnu_resolver")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: cannot read config file: %v", err)
	}
}

func initLogger() *zap.Logger {
	var cfg zap.Config
	if viper.GetString("app.env") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("cannot initialize logger:", err)
	}
	return logger
}

// initCache builds the configured cache backend. A misconfigured hybrid
// backend is fatal; asking for it implies the infrastructure exists.
func initCache(mongoDB **mongo.Database, tableVersion string, logger *zap.Logger) services.ICacheService {
	ttl := time.Duration(viper.GetInt("cache.ttl_hours")) * time.Hour
	l1Size := viper.GetInt("cache.l1_size")

	switch backend := viper.GetString("cache.backend"); backend {
	case "none":
		return nil

	case "memory":
		return services.NewMemoryCacheService(l1Size, ttl)

	case "hybrid":
		redisCache, err := services.NewRedisCacheService(viper.GetString("redis.url"), logger)
		if err != nil {
			logger.Fatal("redis cache init failed", zap.Error(err))
		}
		redisCache.SetTTL(ttl)

		*mongoDB = initMongoDB(logger)
		mongoCache, err := services.NewMongoCacheService(*mongoDB, l1Size, tableVersion, logger)
		if err != nil {
			logger.Fatal("mongo cache init failed", zap.Error(err))
		}

		hybrid := services.NewHybridCacheService(redisCache, mongoCache, logger)
		if err := hybrid.WarmUpFromMongoDB(context.Background(), l1Size/2); err != nil {
			logger.Warn("cache warm up failed", zap.Error(err))
		}
		return hybrid

	default:
		logger.Fatal("unknown cache backend", zap.String("backend", backend))
		return nil
	}
}

func initMongoDB(logger *zap.Logger) *mongo.Database {
	mongoURL := viper.GetString("mongo.url")

	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURL))
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("mongo ping failed", zap.Error(err))
	}

	dbName := viper.GetString("mongo.database")
	logger.Info("connected to MongoDB", zap.String("database", dbName))
	return client.Database(dbName)
}

// fileVersion fingerprints the reference table so cached results can be
// invalidated when it changes.
func fileVersion(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "unknown"
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:8])
}
