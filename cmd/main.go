package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"Yatra-App/internal/database"
	domainRepo "Yatra-App/internal/domain/repository"
	"Yatra-App/internal/handler"
	"Yatra-App/internal/infrastructure/ai"
	infraDB "Yatra-App/internal/infrastructure/database"
	"Yatra-App/internal/infrastructure/firestore"
	redisInfra "Yatra-App/internal/infrastructure/redis"
	"Yatra-App/internal/repository"
	"Yatra-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if geminiAPIKey == "" {
		fmt.Println("⚠️  環境変数が設定されていません:")
		fmt.Println("必要な環境変数: GEMINI_API_KEY")
		fmt.Println("\n.envファイルを作成するか、環境変数を設定してください")
		log.Fatal("Environment variables not set")
	}

	ctx := context.Background()

	// オラクル（Gemini）
	geminiClient := ai.NewGeminiClient(geminiAPIKey)
	oracle := ai.NewGeminiItineraryOracle(geminiClient)

	// セッション状態コンテナ（Redis）
	redisClient, err := redisInfra.NewRedisClient(ctx)
	if err != nil {
		log.Fatalf("Redis初期化失敗: %v", err)
	}
	sessionRepo := repository.NewRedisPlanSessionRepository(redisClient)

	// 保存済み旅程ストアの選択（デフォルト: Firestore）
	itineraryRepo, err := buildItineraryRepository(ctx)
	if err != nil {
		log.Fatalf("旅程ストア初期化失敗: %v", err)
	}

	// Dependency injection
	itineraryUseCase := usecase.NewItineraryUseCase(oracle, sessionRepo)
	savedUseCase := usecase.NewSavedItineraryUseCase(itineraryRepo)
	exportUseCase := usecase.NewItineraryExportUseCase(itineraryRepo)

	itineraryHandler := handler.NewItineraryHandler(itineraryUseCase)
	savedHandler := handler.NewSavedItineraryHandler(savedUseCase, exportUseCase)

	// Ginルーターのセットアップ
	r := gin.Default()

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy", "service": "Yatra-App"})
	})

	itineraries := r.Group("/itineraries")
	{
		itineraries.POST("/extract", itineraryHandler.PostExtract)
		itineraries.POST("/generate", itineraryHandler.PostGenerate)
		itineraries.POST("/adjust", itineraryHandler.PostAdjust)
		itineraries.GET("/session/:id", itineraryHandler.GetSessionPlan)
		itineraries.DELETE("/session/:id", itineraryHandler.DeleteSessionPlan)

		itineraries.PUT("/saved", savedHandler.PutSaved)
		itineraries.GET("/saved", savedHandler.GetSavedList)
		itineraries.GET("/saved/:title", savedHandler.GetSaved)
		itineraries.DELETE("/saved/:title", savedHandler.DeleteSaved)
		itineraries.GET("/saved/:title/export/json", savedHandler.GetExportJSON)
		itineraries.GET("/saved/:title/export/ics", savedHandler.GetExportICS)
		itineraries.GET("/saved/:title/export/document", savedHandler.GetExportDocument)
		itineraries.GET("/saved/:title/summary", savedHandler.GetSummary)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("Yatra-App server starting on :%s...\n", port)
	log.Fatal(r.Run(":" + port))
}

// buildItineraryRepository ITINERARY_STORE環境変数に応じて保存先を組み立てる
func buildItineraryRepository(ctx context.Context) (domainRepo.ItineraryRepository, error) {
	store := os.Getenv("ITINERARY_STORE")

	switch store {
	case "postgres":
		pgClient, err := infraDB.NewPostgreSQLClient()
		if err != nil {
			return nil, fmt.Errorf("PostgreSQL初期化失敗: %w", err)
		}
		return repository.NewPostgresItineraryRepository(pgClient)

	case "supabase":
		supabaseClient, err := database.NewSupabaseClient()
		if err != nil {
			return nil, fmt.Errorf("Supabase初期化失敗: %w", err)
		}
		if err := supabaseClient.HealthCheck(); err != nil {
			return nil, fmt.Errorf("Supabaseヘルスチェック失敗: %w", err)
		}
		return repository.NewSupabaseItineraryRepository(supabaseClient), nil

	default:
		projectID := os.Getenv("FIRESTORE_PROJECT_ID")
		if projectID == "" {
			return nil, fmt.Errorf("FIRESTORE_PROJECT_ID環境変数が設定されていません")
		}
		firestoreClient, err := firestore.NewFirestoreClient(ctx, projectID)
		if err != nil {
			return nil, fmt.Errorf("Firestore初期化失敗: %w", err)
		}
		return repository.NewFirestoreItineraryRepository(firestoreClient.GetClient()), nil
	}
}
