package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateActivityModule creates a new activity module in a course. The
// module carries the content only; placing it in the course tree is done
// separately through the section endpoints.
func AdminCreateActivityModule(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	courseID := c.Locals("courseID").(int)

	// Check if course exists
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedActivityModule").(*struct {
		Kind        string `json:"kind"`
		Title       string `json:"title"`
		Description string `json:"description"`
		TextContent string `json:"text_content"`
		VideoURL    string `json:"video_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	module := courseModels.ActivityModule{
		CourseID:    uint(courseID),
		Kind:        reqData.Kind,
		Title:       reqData.Title,
		Description: reqData.Description,
		TextContent: reqData.TextContent,
		VideoURL:    reqData.VideoURL,
		IsPublished: false,
	}

	// Fill title/description for video modules from the oEmbed provider
	if module.Kind == "VIDEO" && module.VideoURL != "" {
		if meta, err := utils.LookupVideoMeta(module.VideoURL); err != nil {
			log.Printf("oEmbed lookup failed for %s: %v", module.VideoURL, err)
		} else {
			if module.Title == "" {
				module.Title = meta.Title
			}
			if module.Description == "" {
				module.Description = meta.AuthorName
			}
		}
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create activity module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Activity module created successfully!", module)
}

// AdminUpdateActivityModule updates an existing activity module
func AdminUpdateActivityModule(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	var module courseModels.ActivityModule
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Activity module not found!", nil)
	}

	reqData, ok := c.Locals("validatedActivityModuleUpdate").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		TextContent string `json:"text_content"`
		VideoURL    string `json:"video_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		module.Title = reqData.Title
	}
	if reqData.Description != "" {
		module.Description = reqData.Description
	}
	if reqData.TextContent != "" {
		module.TextContent = reqData.TextContent
	}
	if reqData.VideoURL != "" {
		module.VideoURL = reqData.VideoURL
	}

	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update activity module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity module updated successfully!", module)
}

// AdminDeleteActivityModule soft deletes a module after removing every
// placement it has in the course tree.
func AdminDeleteActivityModule(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	var module courseModels.ActivityModule
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Activity module not found!", nil)
	}

	// Remove placements through the hierarchy service so sibling orders
	// stay contiguous in every affected section.
	var links []courseModels.SectionModuleLink
	database.Database.Db.Where("activity_module_id = ?", moduleID).Find(&links)

	actor := middleware.ActorFor(&user)
	for _, link := range links {
		if err := Hierarchy.RemoveActivityModuleFromSection(actor, link.ID); err != nil {
			return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
		}
	}

	tx := database.Database.Db.Begin()

	module.IsDeleted = true
	if err := tx.Save(&module).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete activity module!", nil)
	}

	// Soft delete quiz options belonging to this module
	if module.Kind == "QUIZ" {
		if err := tx.Model(&courseModels.MCQOption{}).Where("activity_module_id = ?", moduleID).Update("is_deleted", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz options!", nil)
		}
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity module deleted successfully!", nil)
}

// AdminListActivityModules lists all activity modules in a course
func AdminListActivityModules(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	courseID := c.Locals("courseID").(int)

	// Check if course exists
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modules []courseModels.ActivityModule
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("created_at asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch activity modules!", nil)
	}

	// Count placements for each module
	type ModuleWithPlacements struct {
		courseModels.ActivityModule
		PlacementCount int64 `json:"placement_count"`
	}

	modulesWithPlacements := make([]ModuleWithPlacements, len(modules))
	for i, mod := range modules {
		var count int64
		database.Database.Db.Model(&courseModels.SectionModuleLink{}).Where("activity_module_id = ?", mod.ID).Count(&count)
		modulesWithPlacements[i] = ModuleWithPlacements{
			ActivityModule: mod,
			PlacementCount: count,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity modules fetched successfully!", fiber.Map{
		"modules": modulesWithPlacements,
	})
}

// AdminPublishActivityModule publishes or unpublishes a module
func AdminPublishActivityModule(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	moduleID := c.Locals("moduleID").(int)
	publishStatus := c.Locals("publishStatus").(bool)

	var module courseModels.ActivityModule
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Activity module not found!", nil)
	}

	// If publishing a quiz, ensure it has options
	if publishStatus && module.Kind == "QUIZ" {
		var optionCount int64
		database.Database.Db.Model(&courseModels.MCQOption{}).Where("activity_module_id = ? AND is_deleted = ?", moduleID, false).Count(&optionCount)
		if optionCount < 2 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz must have at least 2 options before publishing!", nil)
		}

		// Check if at least one correct answer exists
		var correctCount int64
		database.Database.Db.Model(&courseModels.MCQOption{}).Where("activity_module_id = ? AND is_correct = ? AND is_deleted = ?", moduleID, true, false).Count(&correctCount)
		if correctCount == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Quiz must have at least one correct answer!", nil)
		}
	}

	module.IsPublished = publishStatus
	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update activity module!", nil)
	}

	message := "Activity module unpublished successfully!"
	if publishStatus {
		message = "Activity module published successfully!"
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, module)
}

// AdminAddMCQOption adds an option to a quiz module
func AdminAddMCQOption(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	// Verify module exists and is a quiz
	var module courseModels.ActivityModule
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Activity module not found!", nil)
	}

	if module.Kind != "QUIZ" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Activity module is not a quiz!", nil)
	}

	reqData, ok := c.Locals("validatedMCQOption").(*struct {
		OptionText string `json:"option_text"`
		IsCorrect  bool   `json:"is_correct"`
		OrderIndex int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Get the next order index if not provided
	orderIndex := reqData.OrderIndex
	if orderIndex == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.MCQOption{}).
			Where("activity_module_id = ? AND is_deleted = ?", moduleID, false).
			Select("COALESCE(MAX(order_index), 0)").Scan(&maxOrder)
		orderIndex = maxOrder + 1
	}

	option := courseModels.MCQOption{
		ActivityModuleID: uint(moduleID),
		OptionText:       reqData.OptionText,
		IsCorrect:        reqData.IsCorrect,
		OrderIndex:       orderIndex,
	}

	if err := database.Database.Db.Create(&option).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add MCQ option!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "MCQ option added successfully!", option)
}

// AdminUpdateMCQOption updates an MCQ option
func AdminUpdateMCQOption(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	optionID := c.Locals("optionID").(int)

	var option courseModels.MCQOption
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", optionID, false).First(&option).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "MCQ option not found!", nil)
	}

	reqData, ok := c.Locals("validatedMCQOptionUpdate").(*struct {
		OptionText string `json:"option_text"`
		IsCorrect  bool   `json:"is_correct"`
		OrderIndex int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.OptionText != "" {
		option.OptionText = reqData.OptionText
	}
	option.IsCorrect = reqData.IsCorrect
	if reqData.OrderIndex > 0 {
		option.OrderIndex = reqData.OrderIndex
	}

	if err := database.Database.Db.Save(&option).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update MCQ option!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "MCQ option updated successfully!", option)
}

// AdminDeleteMCQOption soft deletes an MCQ option
func AdminDeleteMCQOption(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	optionID := c.Locals("optionID").(int)

	var option courseModels.MCQOption
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", optionID, false).First(&option).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "MCQ option not found!", nil)
	}

	option.IsDeleted = true
	if err := database.Database.Db.Save(&option).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete MCQ option!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "MCQ option deleted successfully!", nil)
}

// AdminActivityModuleDetails is a module with its quiz options
type AdminActivityModuleDetails struct {
	courseModels.ActivityModule
	MCQOptions []courseModels.MCQOption `json:"mcq_options,omitempty"`
}

// AdminGetActivityModule gets one module with its quiz options
func AdminGetActivityModule(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	var module courseModels.ActivityModule
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Activity module not found!", nil)
	}

	details := AdminActivityModuleDetails{ActivityModule: module}

	if module.Kind == "QUIZ" {
		var options []courseModels.MCQOption
		database.Database.Db.Where("activity_module_id = ? AND is_deleted = ?", module.ID, false).Order("order_index asc").Find(&options)
		details.MCQOptions = options
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity module fetched successfully!", details)
}
