package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/gorilla/mux"

	"hyyq_server/models"
	"hyyq_server/routes"
	"hyyq_server/services"
	"hyyq_server/socket"
)

// newBackends picks the persistence layer: DynamoDB by default, an
// in-memory store with a seeded demo account when STORE=memory (local
// development without AWS).
func newBackends() (services.MatchStore, services.UserDirectory) {
	if os.Getenv("STORE") == "memory" {
		log.Println("Using in-memory match store (STORE=memory)")
		return services.NewMemoryMatchStore(), services.StaticUserDirectory{
			"demo": {UserID: "demo", Name: "Demo User", Status: models.UserStatusActive},
		}
	}
	log.Println("Initializing DynamoDB client...")
	dynamo := &services.DynamoService{Client: services.InitializeDynamoDBClient()}
	return &services.DynamoMatchStore{Dynamo: dynamo}, &services.UserProfileService{Dynamo: dynamo}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	store, userDirectory := newBackends()

	// Socket.IO server pushes join/leave/status events to match rooms
	socketServer := socket.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()
	notifier := &socket.Broadcaster{Server: socketServer}

	matchService := &services.MatchService{
		Store:    store,
		Users:    userDirectory,
		Matcher:  services.MatcherFromEnv(),
		Notifier: notifier,
	}
	participationService := &services.ParticipationService{
		Store:    store,
		Notifier: notifier,
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := mux.NewRouter()
	r.Handle("/socket.io/", socketServer)

	routes.RegisterRoutes(r)
	routes.RegisterMatchRoutes(r, matchService, participationService, userDirectory)
	routes.RegisterAdminRoutes(r, matchService)
	routes.RegisterUploadRoutes(r)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
