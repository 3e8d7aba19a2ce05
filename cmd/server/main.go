package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v78"

	"carshow/internal/api"
	"carshow/internal/auth"
	"carshow/internal/config"
	"carshow/internal/queue"
	"carshow/internal/repository"
	"carshow/internal/service"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	stripe.Key = cfg.StripeSecretKey

	var publisher *queue.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = queue.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Printf("Event publishing disabled, could not connect to broker: %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	reservationRepo := repository.NewReservationRepository(db)
	carRepo := repository.NewCarRepository(db)
	reconcilerRepo := repository.NewReconcilerRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)

	notifier := service.NewTwilioNotifier(cfg.TwilioFromNumber, cfg.SMSCountryPrefix)
	sender := service.NewSenderService(notifier)

	reservationSvc := service.NewReservationService(reservationRepo, carRepo, sender, publisher)
	carSvc := service.NewCarService(carRepo)
	stripeSvc := service.NewStripeService(reservationRepo)
	adminSvc := service.NewAdminService(adminRepo, reservationSvc, stripeSvc)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo, cfg.JWTSecret)
	reconciler := service.NewReconcilerService(reconcilerRepo, sender, publisher)

	c := cron.New()
	if _, err := c.AddFunc(cfg.ReconcilerSpec, reconciler.Run); err != nil {
		log.Fatalf("Invalid reconciler spec %q: %v", cfg.ReconcilerSpec, err)
	}
	c.Start()
	defer c.Stop()

	userHandler := api.NewUserReservationHandler(reservationSvc, carSvc, stripeSvc)
	adminHandler := api.NewAdminHandler(adminSvc, carSvc)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)
	stripeHandler := api.NewStripeWebhookHandler(cfg.StripeWebhookKey, reservationSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/availability", userHandler.CheckAvailability).Methods("POST")
	r.HandleFunc("/api/reservations", userHandler.CreateReservation).Methods("POST")
	r.HandleFunc("/api/reservations/{code}", userHandler.GetReservation).Methods("GET")
	r.HandleFunc("/api/reservations/{code}", userHandler.UpdateReservation).Methods("PUT")
	r.HandleFunc("/api/reservations/{code}", userHandler.CancelReservation).Methods("DELETE")
	r.HandleFunc("/api/reservations/{code}/payment", userHandler.ConfirmPayment).Methods("POST")
	r.HandleFunc("/api/reservations/{code}/checkout", userHandler.Checkout).Methods("POST")
	r.HandleFunc("/api/cars", userHandler.ListCars).Methods("GET")
	r.HandleFunc("/api/cars/{id}", userHandler.GetCar).Methods("GET")
	r.HandleFunc("/api/stripe/webhook", stripeHandler.HandleWebhook).Methods("POST")
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(cfg.JWTSecret))
	admin.HandleFunc("/register", adminAuthHandler.Register).Methods("POST")
	admin.HandleFunc("/reservations", adminHandler.ListReservations).Methods("GET")
	admin.HandleFunc("/reservations/{code}", userHandler.UpdateReservation).Methods("PUT")
	admin.HandleFunc("/reservations/{code}/cancel", adminHandler.CancelReservation).Methods("POST")
	admin.HandleFunc("/reservations/{id}", adminHandler.DeleteReservation).Methods("DELETE")
	admin.HandleFunc("/payments", adminHandler.PaymentHistory).Methods("GET")
	admin.HandleFunc("/stats", adminHandler.Stats).Methods("GET")
	admin.HandleFunc("/cars", adminHandler.CreateCar).Methods("POST")
	admin.HandleFunc("/cars/{id}", adminHandler.UpdateCar).Methods("PUT")
	admin.HandleFunc("/cars/{id}", adminHandler.DeleteCar).Methods("DELETE")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{cfg.CORSOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Stripe-Signature"}),
	)

	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(log.Writer(), cors(r))))
}
