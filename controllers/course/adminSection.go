package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/services/hierarchy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// Hierarchy is the shared course-tree service. Wired in main after the
// database connects.
var Hierarchy *hierarchy.Service

// hierarchyStatus maps a hierarchy error kind to an HTTP status code.
func hierarchyStatus(err error) int {
	switch hierarchy.KindOf(err) {
	case hierarchy.KindNotFound:
		return fiber.StatusNotFound
	case hierarchy.KindInvalidArgument:
		return fiber.StatusBadRequest
	case hierarchy.KindInvalidOperation:
		return fiber.StatusUnprocessableEntity
	case hierarchy.KindConflict:
		return fiber.StatusConflict
	case hierarchy.KindPermissionDenied:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// currentActor loads the authenticated user and builds the hierarchy actor.
func currentActor(c *fiber.Ctx) (hierarchy.Actor, *models.User, error) {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return hierarchy.Actor{}, nil, fiber.ErrUnauthorized
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return hierarchy.Actor{}, nil, fiber.ErrUnauthorized
	}

	return middleware.ActorFor(&user), &user, nil
}

// AdminCreateSection creates a section at the course root or under a parent
func AdminCreateSection(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedSection").(*struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		ParentSectionID *uint  `json:"parent_section_id"`
		Position        *int   `json:"position"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	section, err := Hierarchy.CreateSection(actor, hierarchy.CreateSectionInput{
		CourseID:        uint(courseID),
		Title:           reqData.Title,
		Description:     reqData.Description,
		ParentSectionID: reqData.ParentSectionID,
		Position:        reqData.Position,
	})
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Section created successfully!", section)
}

// AdminUpdateSection updates title/description and optionally reparents
func AdminUpdateSection(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sectionID := c.Locals("sectionID").(int)

	reqData, ok := c.Locals("validatedSectionUpdate").(*struct {
		Title           *string `json:"title"`
		Description     *string `json:"description"`
		ParentSectionID *uint   `json:"parent_section_id"`
		MoveToRoot      bool    `json:"move_to_root"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	section, err := Hierarchy.UpdateSection(actor, uint(sectionID), hierarchy.SectionPatch{
		Title:           reqData.Title,
		Description:     reqData.Description,
		ParentSectionID: reqData.ParentSectionID,
		MoveToRoot:      reqData.MoveToRoot,
	})
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section updated successfully!", section)
}

// AdminDeleteSection deletes an empty section
func AdminDeleteSection(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sectionID := c.Locals("sectionID").(int)

	if err := Hierarchy.DeleteSection(actor, uint(sectionID)); err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section deleted successfully!", nil)
}

// AdminGetSectionTree returns the nested section tree of a course
func AdminGetSectionTree(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	tree, err := Hierarchy.GetSectionTree(actor, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section tree fetched successfully!", tree)
}

// AdminReorderSections applies a complete new ordering to a sibling set
func AdminReorderSections(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedReorder").(*struct {
		OrderedIDs []uint `json:"ordered_ids"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	moved, err := Hierarchy.ReorderSections(actor, reqData.OrderedIDs)
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sections reordered successfully!", fiber.Map{
		"moved": moved,
	})
}

// AdminReorderSection moves one section to a new slot among its siblings
func AdminReorderSection(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sectionID := c.Locals("sectionID").(int)

	reqData, ok := c.Locals("validatedPosition").(*struct {
		Position int `json:"position"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	section, err := Hierarchy.ReorderSection(actor, uint(sectionID), reqData.Position)
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section moved successfully!", section)
}

// AdminNestSection places a section under a new parent section
func AdminNestSection(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sectionID := c.Locals("sectionID").(int)

	reqData, ok := c.Locals("validatedNest").(*struct {
		ParentSectionID uint `json:"parent_section_id"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	section, err := Hierarchy.NestSection(actor, uint(sectionID), reqData.ParentSectionID)
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section nested successfully!", section)
}

// AdminUnnestSection promotes a section to the course root
func AdminUnnestSection(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sectionID := c.Locals("sectionID").(int)

	section, err := Hierarchy.UnnestSection(actor, uint(sectionID))
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section unnested successfully!", section)
}

// AdminMoveSection reparents and positions a section in one call
func AdminMoveSection(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sectionID := c.Locals("sectionID").(int)

	reqData, ok := c.Locals("validatedSectionMove").(*struct {
		ParentSectionID *uint `json:"parent_section_id"`
		Position        int   `json:"position"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	section, err := Hierarchy.MoveSection(actor, uint(sectionID), reqData.ParentSectionID, reqData.Position)
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Section moved successfully!", section)
}

// AdminAddModuleToSection places an activity module inside a section
func AdminAddModuleToSection(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sectionID := c.Locals("sectionID").(int)

	reqData, ok := c.Locals("validatedModuleLink").(*struct {
		ActivityModuleID uint           `json:"activity_module_id"`
		Position         *int           `json:"position"`
		Settings         datatypes.JSON `json:"settings"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	link, err := Hierarchy.AddActivityModuleToSection(actor, reqData.ActivityModuleID, uint(sectionID), reqData.Position, reqData.Settings)
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module added to section successfully!", link)
}

// AdminRemoveModuleLink removes a placement without deleting the module
func AdminRemoveModuleLink(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	linkID := c.Locals("linkID").(int)

	if err := Hierarchy.RemoveActivityModuleFromSection(actor, uint(linkID)); err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module removed from section successfully!", nil)
}

// AdminReorderSectionModules applies a new ordering to a section's module links
func AdminReorderSectionModules(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sectionID := c.Locals("sectionID").(int)

	reqData, ok := c.Locals("validatedLinkReorder").(*struct {
		OrderedLinkIDs []uint `json:"ordered_link_ids"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	moved, err := Hierarchy.ReorderActivityModulesInSection(actor, uint(sectionID), reqData.OrderedLinkIDs)
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules reordered successfully!", fiber.Map{
		"moved": moved,
	})
}

// AdminMoveModuleLink moves a placement into another section
func AdminMoveModuleLink(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	linkID := c.Locals("linkID").(int)

	reqData, ok := c.Locals("validatedLinkMove").(*struct {
		SectionID uint `json:"section_id"`
		Position  *int `json:"position"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	link, err := Hierarchy.MoveActivityModuleBetweenSections(actor, uint(linkID), reqData.SectionID, reqData.Position)
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module moved successfully!", link)
}

// AdminGeneralMove is the drag-and-drop endpoint: it moves a section or a
// module placement above/below/inside any target node in the course tree.
func AdminGeneralMove(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedGeneralMove").(*struct {
		Source   hierarchy.NodeRef `json:"source"`
		Target   hierarchy.NodeRef `json:"target"`
		Location string            `json:"location"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	result, err := Hierarchy.GeneralMove(actor, reqData.Source, reqData.Target, hierarchy.MoveLocation(reqData.Location))
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Moved successfully!", result)
}

// AdminGetCourseStructure returns the materialized content tree of a course
func AdminGetCourseStructure(c *fiber.Ctx) error {
	actor, _, err := currentActor(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	structure, err := Hierarchy.GetCourseStructure(actor, uint(courseID))
	if err != nil {
		return middleware.JsonResponse(c, hierarchyStatus(err), false, err.Error(), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course structure fetched successfully!", structure)
}
