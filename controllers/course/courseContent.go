package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// ModuleWithMCQ is a placed activity module enriched for student views
type ModuleWithMCQ struct {
	courseModels.ActivityModule
	LinkID       uint                     `json:"link_id"`
	SectionID    uint                     `json:"section_id"`
	ContentOrder int                      `json:"content_order"`
	MCQOptions   []courseModels.MCQOption `json:"mcq_options,omitempty"`
	IsCompleted  bool                     `json:"is_completed"`
}

// GetCourseContent lists the published activity modules placed in a course
func GetCourseContent(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	// Get optional filters from query params
	sectionIDStr := c.Query("section_id")
	kind := c.Query("kind")

	// Retrieve validated pagination request
	reqData, _ := c.Locals("validatedCourseContentList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})

	// Set default pagination
	page := 1
	limit := 10
	if reqData != nil && reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData != nil && reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	// Placed, published modules only
	db := database.Database.Db.Model(&courseModels.SectionModuleLink{}).
		Joins("JOIN activity_modules ON activity_modules.id = section_module_links.activity_module_id").
		Where("section_module_links.course_id = ? AND activity_modules.is_deleted = ? AND activity_modules.is_published = ?", courseID, false, true)

	// Apply optional filters
	if sectionIDStr != "" {
		if sectionID, err := strconv.Atoi(sectionIDStr); err == nil && sectionID > 0 {
			db = db.Where("section_module_links.section_id = ?", sectionID)
		}
	}
	if kind != "" {
		db = db.Where("activity_modules.kind = ?", kind)
	}

	// Get total count
	var total int64
	db.Count(&total)

	// Fetch paginated placements
	var links []courseModels.SectionModuleLink
	if err := db.Select("section_module_links.*").
		Offset(offset).Limit(limit).
		Order("section_module_links.section_id asc, section_module_links.content_order asc").
		Find(&links).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course content!", nil)
	}

	result := make([]ModuleWithMCQ, 0, len(links))
	for _, link := range links {
		var module courseModels.ActivityModule
		if err := database.Database.Db.Where("id = ?", link.ActivityModuleID).First(&module).Error; err != nil {
			continue
		}
		result = append(result, enrichModuleForUser(userId, module, link))
	}

	// Prepare response
	response := map[string]interface{}{
		"modules": result,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course content fetched successfully!", response)
}

// enrichModuleForUser attaches placement info, completion status and
// answer-stripped quiz options.
func enrichModuleForUser(userId uint, module courseModels.ActivityModule, link courseModels.SectionModuleLink) ModuleWithMCQ {
	out := ModuleWithMCQ{
		ActivityModule: module,
		LinkID:         link.ID,
		SectionID:      link.SectionID,
		ContentOrder:   link.ContentOrder,
	}

	// Check if completed by user
	var completion courseModels.ModuleCompletion
	if err := database.Database.Db.Where("user_id = ? AND activity_module_id = ? AND is_deleted = ?", userId, module.ID, false).First(&completion).Error; err == nil {
		out.IsCompleted = true
	}

	// Get MCQ options for quizzes
	if module.Kind == "QUIZ" {
		var options []courseModels.MCQOption
		database.Database.Db.Where("activity_module_id = ? AND is_deleted = ?", module.ID, false).Order("order_index asc").Find(&options)
		// Remove IsCorrect from options for users (don't show answers)
		for j := range options {
			options[j].IsCorrect = false
		}
		out.MCQOptions = options
	}

	return out
}

// MarkModuleComplete marks an activity module as completed by the user
func MarkModuleComplete(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	// Module must exist, be published and belong to the course
	var module courseModels.ActivityModule
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", moduleID, courseID, false, true).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Activity module not found!", nil)
	}

	// Module must be placed in the course tree
	var placementCount int64
	database.Database.Db.Model(&courseModels.SectionModuleLink{}).Where("activity_module_id = ?", moduleID).Count(&placementCount)
	if placementCount == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Activity module is not part of the course content!", nil)
	}

	// Check if user is enrolled in the course
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Quizzes are completed by answering, not by marking
	if module.Kind == "QUIZ" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quizzes are completed by submitting a correct answer!", nil)
	}

	// Check if module is already marked as completed
	var existingCompletion courseModels.ModuleCompletion
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND activity_module_id = ? AND is_deleted = ?", userID, courseID, moduleID, false).First(&existingCompletion).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Module already marked as completed!", nil)
	}

	// Create completion record
	completion := courseModels.ModuleCompletion{
		UserID:           userID,
		CourseID:         uint(courseID),
		ActivityModuleID: uint(moduleID),
		Status:           "COMPLETED",
	}

	// Save to database with transaction
	tx := database.Database.Db.Begin()
	if err := tx.Create(&completion).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to mark module as completed!", nil)
	}
	tx.Commit()

	// Update enrollment progress
	updateEnrollmentProgress(userID, uint(courseID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module marked as completed successfully!", completion)
}

// GetModuleCompletions lists the user's completions in a course
func GetModuleCompletions(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Retrieve validated course ID
	courseID := c.Locals("courseID").(int)

	// Check if course exists and is published
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	// Check if user is enrolled
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Retrieve validated pagination request
	reqData, ok := c.Locals("validatedCompletionList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		// Fetch all completions without pagination
		var completions []courseModels.ModuleCompletion
		if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Find(&completions).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch completions!", nil)
		}

		response := map[string]interface{}{
			"completions": completions,
			"pagination": map[string]interface{}{
				"total": int64(len(completions)),
				"page":  1,
				"limit": len(completions),
			},
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Completions fetched successfully!", response)
	}

	// Set default pagination
	page := 1
	limit := 10
	if reqData.Page != nil {
		page = *reqData.Page
	}
	if reqData.Limit != nil {
		limit = *reqData.Limit
	}
	offset := (page - 1) * limit

	// Fetch completions with pagination
	var completions []courseModels.ModuleCompletion
	db := database.Database.Db.Model(&courseModels.ModuleCompletion{}).Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false)

	// Get total count
	var total int64
	db.Count(&total)

	// Fetch paginated data
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&completions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch completions!", nil)
	}

	// Prepare response
	response := map[string]interface{}{
		"completions": completions,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Completions fetched successfully!", response)
}
