package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"fidha_server/routes"
	"fidha_server/services"
	"fidha_server/socket"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load local overrides; fine if the file is absent in deployed envs
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	matchConfig := services.LoadMatchConfigFromEnv()
	log.Printf("Match config: radius %.0fm, window %s, threshold %.2f",
		matchConfig.RadiusMeters, matchConfig.TimeWindow, matchConfig.ScoreThreshold)

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	notificationService := &services.NotificationService{
		Dynamo:   dynamoService,
		SNS:      services.InitializeSNSClient(),
		Profiles: userProfileService,
	}
	sessionService := &services.SessionService{Dynamo: dynamoService, Window: matchConfig.TimeWindow}
	descriptionService := &services.DescriptionService{Dynamo: dynamoService}
	matchService := &services.MatchService{Dynamo: dynamoService}
	chatService := &services.ChatService{Dynamo: dynamoService, Notifier: notificationService}

	matchEngine := &services.MatchEngine{
		Config:       matchConfig,
		Descriptions: descriptionService,
		Matches:      matchService,
		Sessions:     sessionService,
		Chats:        chatService,
		Notifier:     notificationService,
	}

	// Background lifecycle sweeper
	sweeper := &services.LifecycleSweeper{
		Sessions:    sessionService,
		Matches:     matchService,
		MatchMaxAge: matchConfig.TimeWindow,
	}
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go sweeper.Run(sweeperCtx)

	// Socket.IO server for realtime chat events
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Fidha")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	r.Handle("/socket.io/", socketServer)

	// Register routes
	routes.RegisterMomentRoutes(r, matchEngine, sessionService, descriptionService)
	routes.RegisterMatchRoutes(r, matchService)
	routes.RegisterChatRoutes(r, chatService)
	routes.RegisterUserProfileRoutes(r, userProfileService, notificationService)
	routes.RegisterS3Routes(r)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
