package main

import (
	"context"

	bookinghandler "mentorbook/internal/bookings/handler"
	bookingrepo "mentorbook/internal/bookings/repository"
	bookingservice "mentorbook/internal/bookings/service"
	bookingvalidator "mentorbook/internal/bookings/validator"
	mentorhandler "mentorbook/internal/mentors/handler"
	mentorrepo "mentorbook/internal/mentors/repository"
	mentorservice "mentorbook/internal/mentors/service"
	mentorvalidator "mentorbook/internal/mentors/validator"
	"mentorbook/internal/notifications"
	"mentorbook/pkg/app"
	"mentorbook/pkg/config"
	"mentorbook/pkg/contracts"
)

const ServiceName = "api"

func main() {
	cfg := config.Load(ServiceName)

	cfg.SetStore()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting mentorbook API")

	dispatcher, closeDispatcher, err := notifications.NewDispatcher(cfg, nil)
	if err != nil {
		cfg.Log.Fatal("Failed to create notification dispatcher", "error", err)
	}

	bookingService, handlers := initServices(cfg, dispatcher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handlers...)
	// hooks run in order: drain pending dispatches before closing the client
	serverApp.OnShutdown(func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DispatchTimeout)
		defer cancel()
		if err := bookingService.Wait(ctx); err != nil {
			cfg.Log.Warn("Confirmation dispatches still pending at shutdown", "error", err)
		}
	})
	serverApp.OnShutdown(func() {
		if err := closeDispatcher(); err != nil {
			cfg.Log.Error("Failed to close notification dispatcher", "error", err)
		}
	})
	serverApp.Run()
}

func initServices(cfg *config.Config, dispatcher notifications.Dispatcher) (bookingservice.BookingService, []contracts.Handler) {
	mentorService := mentorservice.NewMentorService(
		mentorrepo.New(cfg),
		mentorvalidator.NewMentorValidator(),
		cfg,
	)
	bookingService := bookingservice.NewBookingService(
		bookingrepo.New(cfg),
		mentorService,
		bookingvalidator.NewBookingValidator(),
		dispatcher,
		cfg,
	)

	cfg.Log.Info("Services initialized", "store", cfg.StoreDriver, "notifier", cfg.NotifierBackend)
	return bookingService, []contracts.Handler{
		mentorhandler.NewMentorHandler(mentorService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
	}
}
