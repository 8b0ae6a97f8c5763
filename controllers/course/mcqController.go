package controllers

import (
	"encoding/json"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/hierarchy"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// SubmitMCQAnswer submits and evaluates a quiz answer
func SubmitMCQAnswer(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Check module exists, is published and is a quiz
	var module courseModels.ActivityModule
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", moduleID, courseID, false, true).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Activity module not found!", nil)
	}

	if module.Kind != "QUIZ" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Activity module is not a quiz!", nil)
	}

	// Only modules placed in the course tree can be answered
	var placementCount int64
	database.Database.Db.Model(&courseModels.SectionModuleLink{}).Where("activity_module_id = ?", moduleID).Count(&placementCount)
	if placementCount == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Activity module is not part of the course content!", nil)
	}

	reqData := new(struct {
		SelectedOptionIDs []uint `json:"selected_option_ids"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if len(reqData.SelectedOptionIDs) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Please select at least one option!", nil)
	}

	// Get correct options
	var correctOptions []courseModels.MCQOption
	database.Database.Db.Where("activity_module_id = ? AND is_correct = ? AND is_deleted = ?", moduleID, true, false).Find(&correctOptions)

	// Calculate score
	correctOptionIDs := make(map[uint]bool)
	for _, opt := range correctOptions {
		correctOptionIDs[opt.ID] = true
	}

	correctCount := 0
	for _, selectedID := range reqData.SelectedOptionIDs {
		if correctOptionIDs[selectedID] {
			correctCount++
		}
	}

	isCorrect := correctCount == len(correctOptions) && len(reqData.SelectedOptionIDs) == len(correctOptions)

	// Get attempt number
	var attemptCount int64
	database.Database.Db.Model(&courseModels.MCQAttempt{}).Where("user_id = ? AND activity_module_id = ? AND is_deleted = ?", userID, moduleID, false).Count(&attemptCount)

	// Store selected options as JSON
	selectedJSON, _ := json.Marshal(reqData.SelectedOptionIDs)

	attempt := courseModels.MCQAttempt{
		UserID:           userID,
		ActivityModuleID: uint(moduleID),
		SelectedOptions:  string(selectedJSON),
		Score:            correctCount,
		MaxScore:         len(correctOptions),
		IsCorrect:        isCorrect,
		AttemptNumber:    int(attemptCount) + 1,
	}

	if err := database.Database.Db.Create(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit answer!", nil)
	}

	// If correct, mark the module as completed
	if isCorrect {
		var existingCompletion courseModels.ModuleCompletion
		if err := database.Database.Db.Where("user_id = ? AND activity_module_id = ? AND is_deleted = ?", userID, moduleID, false).First(&existingCompletion).Error; err != nil {
			completion := courseModels.ModuleCompletion{
				UserID:           userID,
				CourseID:         uint(courseID),
				ActivityModuleID: uint(moduleID),
				Status:           "COMPLETED",
			}
			database.Database.Db.Create(&completion)

			// Update enrollment progress
			updateEnrollmentProgress(userID, uint(courseID))
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer submitted!", fiber.Map{
		"attempt":    attempt,
		"is_correct": isCorrect,
		"score":      correctCount,
		"max_score":  len(correctOptions),
	})
}

// GetUserProgress gets the user's progress in a course, broken down per
// top-level section of the content tree.
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Get completed module IDs
	var completions []courseModels.ModuleCompletion
	database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Find(&completions)

	completedIDs := make([]uint, len(completions))
	completed := make(map[uint]bool, len(completions))
	for i, cc := range completions {
		completedIDs[i] = cc.ActivityModuleID
		completed[cc.ActivityModuleID] = true
	}

	// Walk the content tree for section-wise progress
	structure, err := Hierarchy.GetCourseStructure(middleware.ActorFor(&user), uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	type SectionProgress struct {
		SectionID        uint    `json:"section_id"`
		SectionName      string  `json:"section_name"`
		TotalModules     int     `json:"total_modules"`
		CompletedModules int     `json:"completed_modules"`
		Progress         float64 `json:"progress"`
	}

	sectionProgress := make([]SectionProgress, 0, len(structure.Content))
	for _, node := range structure.Content {
		if node.Type != hierarchy.NodeSection {
			continue
		}

		total, done := countTreeModules(node, completed)
		progress := float64(0)
		if total > 0 {
			progress = float64(done) / float64(total) * 100
		}

		sectionProgress = append(sectionProgress, SectionProgress{
			SectionID:        node.ID,
			SectionName:      node.Title,
			TotalModules:     total,
			CompletedModules: done,
			Progress:         progress,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":       enrollment,
		"completed_ids":    completedIDs,
		"section_progress": sectionProgress,
	})
}

// countTreeModules counts module placements in a structure subtree and how
// many of them the user completed.
func countTreeModules(node hierarchy.StructureNode, completed map[uint]bool) (total, done int) {
	for _, child := range node.Content {
		if child.Type == hierarchy.NodeActivityModule {
			total++
			if completed[child.ActivityModuleID] {
				done++
			}
			continue
		}
		t, d := countTreeModules(child, completed)
		total += t
		done += d
	}
	return total, done
}

// updateEnrollmentProgress recomputes enrollment progress after a module
// completion. Totals count distinct published modules placed in the tree.
func updateEnrollmentProgress(userID uint, courseID uint) {
	var totalModules int64
	var completedModules int64

	database.Database.Db.Model(&courseModels.SectionModuleLink{}).
		Joins("JOIN activity_modules ON activity_modules.id = section_module_links.activity_module_id").
		Where("section_module_links.course_id = ? AND activity_modules.is_published = ? AND activity_modules.is_deleted = ?", courseID, true, false).
		Distinct("section_module_links.activity_module_id").
		Count(&totalModules)

	database.Database.Db.Model(&courseModels.ModuleCompletion{}).Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).Count(&completedModules)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return
	}

	enrollment.CompletedModules = int(completedModules)
	enrollment.TotalModules = int(totalModules)

	if totalModules > 0 {
		enrollment.Progress = float64(completedModules) / float64(totalModules) * 100
	}

	justCompleted := false
	if enrollment.Progress >= 100 {
		if enrollment.Status != "COMPLETED" {
			justCompleted = true
		}
		enrollment.Status = "COMPLETED"
		now := enrollment.UpdatedAt
		enrollment.CompletedAt = &now
	} else if enrollment.Progress > 0 {
		enrollment.Status = "IN_PROGRESS"
	}

	database.Database.Db.Save(&enrollment)

	if justCompleted {
		var user models.User
		var course courseModels.Course
		if err := database.Database.Db.Where("id = ?", userID).First(&user).Error; err == nil {
			database.Database.Db.Where("id = ?", courseID).First(&course)
			if user.Email != "" {
				utils.SendCourseCompletedEmail(user.Email, user.Name, course.Title)
			}
		}
	}
}
