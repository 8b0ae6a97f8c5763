package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetCourseDetails gets course details with the content tree for users
func GetCourseDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	// Check if course exists and is published
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	// Materialized content tree
	structure, err := Hierarchy.GetCourseStructure(middleware.ActorFor(&user), uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	// Check enrollment status
	var enrollment courseModels.Enrollment
	isEnrolled := false
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err == nil {
		isEnrolled = true
	}

	response := fiber.Map{
		"course":      course,
		"content":     structure.Content,
		"is_enrolled": isEnrolled,
	}
	if isEnrolled {
		response["enrollment"] = enrollment
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details fetched successfully!", response)
}

// GetSectionModules lists the modules placed in one section, in content order
func GetSectionModules(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	sectionID := c.Locals("sectionID").(int)

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

	// Section must belong to the course
	var section courseModels.Section
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", sectionID, courseID, false).First(&section).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Section not found!", nil)
	}

	// Placements in this section, in content order
	var links []courseModels.SectionModuleLink
	if err := database.Database.Db.Where("section_id = ?", sectionID).Order("content_order asc").Find(&links).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch section modules!", nil)
	}

	modules := make([]ModuleWithMCQ, 0, len(links))
	for _, link := range links {
		var module courseModels.ActivityModule
		if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", link.ActivityModuleID, false, true).First(&module).Error; err != nil {
			continue
		}
		modules = append(modules, enrichModuleForUser(userID, module, link))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section modules fetched successfully!", fiber.Map{
		"section": section,
		"modules": modules,
	})
}
