package middleware

import (
	"lms/database"
	"lms/models"
	"lms/services/hierarchy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CheckPermissionMiddleware returns a middleware that checks if the user has the required permission
func CheckPermissionMiddleware(requiredPermission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get user ID from context (set by your auth middleware)
		userID, ok := c.Locals("userId").(uint)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Unauthorized: User ID not found",
				"data":    nil,
			})
		}

		var permission models.Permission
		err := database.Database.Db.Where("user_id = ? AND permission = ? AND is_deleted = false",
			userID, requiredPermission).First(&permission).Error

		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"status":  false,
					"message": "You do not have permission to access this resource!",
					"data":    nil,
				})
			}
			// Other DB error
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  false,
				"message": "Server error while checking permissions!",
				"data":    nil,
			})
		}

		// Permission found, proceed
		return c.Next()
	}
}

// RoleGate authorizes course tree mutations for the hierarchy service.
// Admins and instructors can edit any course; everyone can read.
type RoleGate struct{}

// Authorize implements hierarchy.AccessGate.
func (RoleGate) Authorize(actor hierarchy.Actor, action string, courseID uint) error {
	if action == "course.read" {
		return nil
	}
	if actor.OverrideAccess || actor.Role == "ADMIN" || actor.Role == "INSTRUCTOR" {
		return nil
	}
	return hierarchy.NewError(hierarchy.KindPermissionDenied,
		"user %d is not allowed to %s course %d", actor.UserID, action, courseID)
}

// ActorFor builds the hierarchy actor for the authenticated user.
func ActorFor(user *models.User) hierarchy.Actor {
	return hierarchy.Actor{
		UserID: user.ID,
		Role:   user.Role,
	}
}
