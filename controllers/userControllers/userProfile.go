package userController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	// Sanitize user data (remove sensitive fields)
	user.Password = ""
	user.ProfileImage = utils.GetFileURL(user.ProfileImage)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedProfile").(*struct {
		Name        string `json:"name"`
		Bio         string `json:"bio"`
		Designation string `json:"designation"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if strings.TrimSpace(reqData.Name) != "" {
		user.Name = strings.TrimSpace(reqData.Name)
	}
	user.Bio = reqData.Bio
	user.Designation = reqData.Designation

	if err := database.Database.Db.Save(&user).Error; err != nil {
		log.Printf("Error updating profile for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully.", user)
}

func UploadProfileImage(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Profile image file is required!", nil)
	}

	filePath, err := utils.SaveUploadedFile(file, "./uploads/profile")
	if err != nil {
		log.Printf("Error saving profile image for user %d: %v", userId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save profile image!", nil)
	}

	user.ProfileImage = filePath
	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile image!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile image uploaded successfully.", fiber.Map{
		"profileImage": utils.GetFileURL(filePath),
	})
}

func CreateReview(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// ✅ Get validated data
	reqData, ok := c.Locals("validatedReview").(*struct {
		Rating   int    `json:"rating"`
		CourseId uint   `json:"courseId"`
		Comment  string `json:"comment"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Course must exist and be published
	var course courseModels.Course
	if err := database.Database.Db.
		Where("id = ? AND is_published = ? AND is_deleted = ?", reqData.CourseId, true, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Only enrolled users can review
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.
		Where("user_id = ? AND course_id = ? AND is_deleted = ?", userId, reqData.CourseId, false).
		First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled in this course to review it!", nil)
	}

	var review models.Review

	// ✅ Check if user already reviewed this course
	err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = false", userId, reqData.CourseId).
		First(&review).Error

	if err == nil {
		// 🔄 Review exists → update it
		review.Rating = reqData.Rating
		review.Comment = reqData.Comment

		if err := database.Database.Db.Save(&review).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update review", nil)
		}
		refreshCourseRating(reqData.CourseId)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully", review)
	}

	// ➕ Review not found → create new one
	newReview := models.Review{
		UserID:   userId,
		CourseID: reqData.CourseId,
		Rating:   reqData.Rating,
		Comment:  reqData.Comment,
	}

	if err := database.Database.Db.Create(&newReview).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create review", nil)
	}

	refreshCourseRating(reqData.CourseId)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review created successfully", newReview)
}

// refreshCourseRating recomputes the average rating stored on the course row.
func refreshCourseRating(courseId uint) {
	var avgRating float64
	database.Database.Db.
		Table("reviews").
		Where("course_id = ? AND is_deleted = false", courseId).
		Select("COALESCE(AVG(rating),0)").
		Scan(&avgRating)

	if err := database.Database.Db.Model(&courseModels.Course{}).
		Where("id = ?", courseId).
		Update("rating", avgRating).Error; err != nil {
		log.Printf("Failed to refresh rating for course %d: %v", courseId, err)
	}
}

func GetReviews(c *fiber.Ctx) error {
	// ✅ Get validated data from middleware
	reqData := c.Locals("validatedReviewList").(*struct {
		Page     *int `json:"page"`
		Limit    *int `json:"limit"`
		CourseId uint `json:"courseId"`
	})

	offset := (*reqData.Page - 1) * (*reqData.Limit)

	var reviews []struct {
		ID        uint   `json:"id"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
		CreatedAt string `json:"created_at"`
	}

	// Fetch reviews
	if err := database.Database.Db.
		Table("reviews").
		Where("reviews.course_id = ? AND reviews.is_deleted = false", reqData.CourseId).
		Offset(offset).
		Limit(*reqData.Limit).
		Scan(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews", nil)
	}

	// ✅ Total reviews count
	var total int64
	database.Database.Db.Model(&models.Review{}).
		Where("course_id = ? AND is_deleted = false", reqData.CourseId).
		Count(&total)

	// ✅ Average rating
	var avgRating float64
	database.Database.Db.
		Table("reviews").
		Where("course_id = ? AND is_deleted = false", reqData.CourseId).
		Select("COALESCE(AVG(rating),0)"). // ensures 0 if no reviews
		Scan(&avgRating)

	// Ensure empty array instead of null
	if reviews == nil {
		reviews = []struct {
			ID        uint   `json:"id"`
			Rating    int    `json:"rating"`
			Comment   string `json:"comment"`
			CreatedAt string `json:"created_at"`
		}{}
	}

	// ✅ Response structure with avg rating
	response := map[string]interface{}{
		"reviews": reviews,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  *reqData.Page,
			"limit": *reqData.Limit,
		},
		"average_rating": avgRating,
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews list fetched successfully", response)
}

func GetLatestMaintenance(c *fiber.Ctx) error {
	var maintenance models.Maintenance

	if err := database.Database.Db.Order("created_at DESC").First(&maintenance).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No maintenance record found", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Database error", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Latest maintenance record", maintenance)
}
