package userProfileRoutes

import (
	userProfileController "lms/controllers/userControllers"
	"lms/middleware"
	userPorfileValidator "lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, userProfileController.GetProfile)
	userGroup.Put("/profile", middleware.JWTMiddleware, userPorfileValidator.UpdateProfile(), userProfileController.UpdateProfile)
	userGroup.Post("/profile/image", middleware.JWTMiddleware, userProfileController.UploadProfileImage)
	userGroup.Post("/review", middleware.JWTMiddleware, userPorfileValidator.CreateReview(), userProfileController.CreateReview)
	userGroup.Get("/reviews", userPorfileValidator.ReviewList(), userProfileController.GetReviews)
	userGroup.Get("/maintenance", userProfileController.GetLatestMaintenance)
}
