package main

import (
	"log"

	"urjakart/config"
	"urjakart/database"
	adminRoutes "urjakart/routers/adminRoutes"
	authRoutes "urjakart/routers/authRoutes"
	orderRoutes "urjakart/routers/orderRoutes"
	paymentRoutes "urjakart/routers/paymentRoutes"
	vpaRoutes "urjakart/routers/vpaRoutes"
	"urjakart/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/robfig/cron/v3"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	orderRoutes.SetupOrderRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	vpaRoutes.SetupVpaRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	// Stale-payment reconciliation sweep
	scheduler := cron.New()
	utils.StartReconciliationScheduler(scheduler)
	scheduler.Start()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
