package userValidator

import (
	"lms/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Parse request body
		reqData := new(struct {
			Name        string `json:"name"`
			Bio         string `json:"bio"`
			Designation string `json:"designation"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Name (optional but must not be too short if provided)
		if reqData.Name != "" && len(strings.TrimSpace(reqData.Name)) < 3 {
			errors["name"] = "Name must be at least 3 characters long if provided!"
		}

		// Validate Bio length
		if len(reqData.Bio) > 1000 {
			errors["bio"] = "Bio must not exceed 1000 characters!"
		}

		// Validate Designation length
		if len(reqData.Designation) > 100 {
			errors["designation"] = "Designation must not exceed 100 characters!"
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		// Pass validated profile details to the next middleware
		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Parse request body
		reqData := new(struct {
			Rating   int    `json:"rating"`
			CourseId uint   `json:"courseId"`
			Comment  string `json:"comment"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Rating
		if reqData.Rating < 1 || reqData.Rating > 5 {
			errors["rating"] = "Rating must be between 1 and 5!"
		}

		// Validate Course ID
		if reqData.CourseId == 0 {
			errors["courseId"] = "Course ID is required!"
		}

		// Validate Comment length
		if len(reqData.Comment) > 2000 {
			errors["comment"] = "Comment must not exceed 2000 characters!"
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		// Pass validated review to the next middleware
		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

func ReviewList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page     *int `json:"page"`
			Limit    *int `json:"limit"`
			CourseId uint `json:"courseId"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request query!", nil)
		}

		errors := make(map[string]string)

		// Validate Page
		if reqData.Page == nil || *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		// Validate Limit
		if reqData.Limit == nil || *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		// Validate Course ID
		if reqData.CourseId == 0 {
			errors["courseId"] = "Course ID is required!"
		}

		// Return validation errors
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReviewList", reqData)
		return c.Next()
	}
}
