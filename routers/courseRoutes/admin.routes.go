package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	// Course CRUD
	adminGroup.Post("/create", middleware.JWTMiddleware, validators.CreateCourseAdmin(), controllers.AdminCreateCourse)
	adminGroup.Put("/:id", middleware.JWTMiddleware, validators.UpdateCourseAdmin(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, validators.DeleteCourse(), controllers.AdminDeleteCourse)
	adminGroup.Get("/list", middleware.JWTMiddleware, validators.AdminList(), controllers.AdminGetAllCourses)
	adminGroup.Get("/:id", middleware.JWTMiddleware, validators.DeleteCourse(), controllers.AdminGetCourseDetails)
	adminGroup.Post("/:id/publish", middleware.JWTMiddleware, validators.PublishCourse(), controllers.AdminPublishCourse)

	// Section tree management
	adminGroup.Post("/:id/section", middleware.JWTMiddleware, validators.CreateSection(), controllers.AdminCreateSection)
	adminGroup.Get("/:id/sections", middleware.JWTMiddleware, validators.SectionTree(), controllers.AdminGetSectionTree)
	adminGroup.Get("/:id/structure", middleware.JWTMiddleware, validators.CourseStructure(), controllers.AdminGetCourseStructure)

	sectionGroup := app.Group("/admin/section")
	sectionGroup.Post("/reorder", middleware.JWTMiddleware, validators.ReorderSections(), controllers.AdminReorderSections)
	sectionGroup.Put("/:section_id", middleware.JWTMiddleware, validators.UpdateSection(), controllers.AdminUpdateSection)
	sectionGroup.Delete("/:section_id", middleware.JWTMiddleware, validators.DeleteSection(), controllers.AdminDeleteSection)
	sectionGroup.Post("/:section_id/reorder", middleware.JWTMiddleware, validators.ReorderSection(), controllers.AdminReorderSection)
	sectionGroup.Post("/:section_id/nest", middleware.JWTMiddleware, validators.NestSection(), controllers.AdminNestSection)
	sectionGroup.Post("/:section_id/unnest", middleware.JWTMiddleware, validators.UnnestSection(), controllers.AdminUnnestSection)
	sectionGroup.Post("/:section_id/move", middleware.JWTMiddleware, validators.MoveSection(), controllers.AdminMoveSection)

	// Module placement within sections
	sectionGroup.Post("/:section_id/module", middleware.JWTMiddleware, validators.AddModuleToSection(), controllers.AdminAddModuleToSection)
	sectionGroup.Post("/:section_id/modules/reorder", middleware.JWTMiddleware, validators.ReorderSectionModules(), controllers.AdminReorderSectionModules)

	linkGroup := app.Group("/admin/link")
	linkGroup.Delete("/:link_id", middleware.JWTMiddleware, validators.RemoveModuleLink(), controllers.AdminRemoveModuleLink)
	linkGroup.Post("/:link_id/move", middleware.JWTMiddleware, validators.MoveModuleLink(), controllers.AdminMoveModuleLink)

	// Drag-and-drop moves across the whole tree
	structureGroup := app.Group("/admin/structure")
	structureGroup.Post("/move", middleware.JWTMiddleware, validators.GeneralMove(), controllers.AdminGeneralMove)

	// Activity module management
	adminGroup.Post("/:id/module", middleware.JWTMiddleware, validators.CreateActivityModule(), controllers.AdminCreateActivityModule)
	adminGroup.Get("/:id/modules", middleware.JWTMiddleware, validators.ListActivityModules(), controllers.AdminListActivityModules)

	moduleGroup := app.Group("/admin/module")
	moduleGroup.Get("/:module_id", middleware.JWTMiddleware, validators.GetActivityModule(), controllers.AdminGetActivityModule)
	moduleGroup.Put("/:module_id", middleware.JWTMiddleware, validators.UpdateActivityModule(), controllers.AdminUpdateActivityModule)
	moduleGroup.Delete("/:module_id", middleware.JWTMiddleware, validators.DeleteActivityModule(), controllers.AdminDeleteActivityModule)
	moduleGroup.Post("/:module_id/publish", middleware.JWTMiddleware, validators.PublishActivityModule(), controllers.AdminPublishActivityModule)

	// MCQ Management
	moduleGroup.Post("/:module_id/mcq", middleware.JWTMiddleware, validators.AddMCQOption(), controllers.AdminAddMCQOption)

	mcqGroup := app.Group("/admin/mcq")
	mcqGroup.Put("/:option_id", middleware.JWTMiddleware, validators.UpdateMCQOption(), controllers.AdminUpdateMCQOption)
	mcqGroup.Delete("/:option_id", middleware.JWTMiddleware, validators.DeleteMCQOption(), controllers.AdminDeleteMCQOption)

	// Enrollment & Progress Tracking
	adminGroup.Get("/:id/enrollments", middleware.JWTMiddleware, validators.GetCourseEnrollments(), controllers.AdminGetCourseEnrollments)
	adminGroup.Get("/:id/completed", middleware.JWTMiddleware, validators.GetCourseEnrollments(), controllers.AdminGetCompletedStudents)

	studentGroup := app.Group("/admin/student")
	studentGroup.Get("/:user_id/progress", middleware.JWTMiddleware, validators.GetStudentProgress(), controllers.AdminGetStudentProgress)

	// Certificate Management
	certGroup := app.Group("/admin/certificates")
	certGroup.Get("/pending", middleware.JWTMiddleware, validators.GetPendingCertificates(), controllers.AdminGetPendingCertificates)
	certGroup.Get("/issued", middleware.JWTMiddleware, validators.GetPendingCertificates(), controllers.AdminGetIssuedCertificates)

	certRequestGroup := app.Group("/admin/certificate")
	certRequestGroup.Post("/:request_id/approve", middleware.JWTMiddleware, validators.ApproveCertificate(), controllers.AdminApproveCertificate)
	certRequestGroup.Post("/:request_id/reject", middleware.JWTMiddleware, validators.RejectCertificate(), controllers.AdminRejectCertificate)

	// Dashboard
	dashGroup := app.Group("/admin/dashboard")
	dashGroup.Get("/stats", middleware.JWTMiddleware, controllers.AdminDashboardStats)
}
