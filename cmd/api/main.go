package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/medimate-api/internal/application/reminder"
	"github.com/medimate-api/internal/config"
	"github.com/medimate-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/medimate-api/internal/infrastructure/jwt"
	"github.com/medimate-api/internal/infrastructure/sns"
	transporthttp "github.com/medimate-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// Push registration and delivery (optional — graceful fallback).
	var registrar sns.Registrar
	if r, err := sns.NewRegistrar(cfg); err == nil {
		registrar = r
	} else {
		log.Printf("WARN: push registrar not available: %v", err)
	}
	var publisher sns.Publisher
	if p, err := sns.NewPublisher(cfg); err == nil {
		publisher = p
	} else {
		log.Printf("WARN: push publisher not available: %v", err)
	}

	medicationRepo := dynamo.NewMedicationRepo(dynamoClient, cfg.DynamoTables.Medications)
	doseLogRepo := dynamo.NewDoseLogRepo(dynamoClient, cfg.DynamoTables.DoseLogs)
	preferenceRepo := dynamo.NewPreferenceRepo(dynamoClient, cfg.DynamoTables.Preferences)
	pushTokenRepo := dynamo.NewPushTokenRepo(dynamoClient, cfg.DynamoTables.PushTokens)
	notificationRepo := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)

	deps := &transporthttp.Deps{
		MedicationRepo:   medicationRepo,
		DoseLogRepo:      doseLogRepo,
		Ledger:           dynamo.NewLedger(dynamoClient, cfg.DynamoTables.DoseLogs, cfg.DynamoTables.Medications),
		PreferenceRepo:   preferenceRepo,
		PushTokenRepo:    pushTokenRepo,
		NotificationRepo: notificationRepo,
		Registrar:        registrar,
		Publisher:        publisher,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	// Background dose reminders.
	worker := reminder.NewWorker(medicationRepo, doseLogRepo, preferenceRepo,
		pushTokenRepo, notificationRepo, publisher, cfg.ReminderInterval)
	worker.Start()
	defer worker.Stop()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
