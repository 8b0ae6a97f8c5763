package main

import (
	"encoding/csv"
	"lms/config"
	"lms/database"
	courseModels "lms/models/course"
	"lms/services/hierarchy"
	"log"
	"os"
	"strconv"
	"strings"
)

// Bulk course importer. Each CSV row describes one activity module and
// where it sits in the course tree:
//
//	courseTitle,courseAuthor,courseDuration,sectionTitle,parentSectionTitle,moduleKind,moduleTitle,textContent,videoUrl
func main() {
	// Load config and connect to database
	config.LoadConfig()
	database.ConnectDb()

	svc := hierarchy.NewService(database.Database.Db, hierarchy.AllowAllGate{}, nil, nil)
	importer := hierarchy.Actor{UserID: 0, Role: "ADMIN"}

	// Open CSV file
	file, err := os.Open("Courses.csv")
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	// Create CSV reader
	reader := csv.NewReader(file)

	// Read all records
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	// Skip header row
	header := records[0]
	log.Printf("CSV Headers: %v", header)
	log.Printf("Total rows to import: %d", len(records)-1)

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range header {
		headerIndex[strings.TrimSpace(h)] = i
	}

	courses := make(map[string]uint)
	sections := make(map[string]uint) // courseTitle + "/" + sectionTitle

	placed := 0
	skipped := 0

	for i, row := range records[1:] {
		if i%100 == 0 {
			log.Printf("Processing row %d...", i+1)
		}

		courseTitle := getField(row, headerIndex, "courseTitle")
		sectionTitle := getField(row, headerIndex, "sectionTitle")
		moduleTitle := getField(row, headerIndex, "moduleTitle")

		if courseTitle == "" || sectionTitle == "" || moduleTitle == "" {
			skipped++
			continue
		}

		// Resolve or create the course
		courseID, ok := courses[courseTitle]
		if !ok {
			var course courseModels.Course
			result := database.Database.Db.Where("title = ? AND is_deleted = ?", courseTitle, false).First(&course)
			if result.Error != nil {
				course = courseModels.Course{
					Title:       courseTitle,
					Description: getField(row, headerIndex, "courseDescription"),
					Author:      getField(row, headerIndex, "courseAuthor"),
					Duration:    int64(parseInt(getField(row, headerIndex, "courseDuration"))),
					Status:      "DRAFT",
				}
				if err := database.Database.Db.Create(&course).Error; err != nil {
					log.Printf("Error creating course %q: %v", courseTitle, err)
					skipped++
					continue
				}
			}
			courseID = course.ID
			courses[courseTitle] = courseID
		}

		// Resolve or create the section, nesting under the parent if given
		sectionKey := courseTitle + "/" + sectionTitle
		sectionID, ok := sections[sectionKey]
		if !ok {
			var parentID *uint
			if parentTitle := getField(row, headerIndex, "parentSectionTitle"); parentTitle != "" {
				if pid, ok := sections[courseTitle+"/"+parentTitle]; ok {
					parentID = &pid
				} else {
					log.Printf("Row %d: parent section %q not seen yet, creating %q at root", i+1, parentTitle, sectionTitle)
				}
			}

			section, err := svc.CreateSection(importer, hierarchy.CreateSectionInput{
				CourseID:        courseID,
				Title:           sectionTitle,
				ParentSectionID: parentID,
			})
			if err != nil {
				log.Printf("Error creating section %q: %v", sectionTitle, err)
				skipped++
				continue
			}
			sectionID = section.ID
			sections[sectionKey] = sectionID
		}

		// Create the activity module
		module := courseModels.ActivityModule{
			CourseID:    courseID,
			Kind:        strings.ToUpper(getField(row, headerIndex, "moduleKind")),
			Title:       moduleTitle,
			TextContent: getField(row, headerIndex, "textContent"),
			VideoURL:    getField(row, headerIndex, "videoUrl"),
		}
		if module.Kind == "" {
			module.Kind = "TEXT"
		}
		if err := database.Database.Db.Create(&module).Error; err != nil {
			log.Printf("Error creating module %q: %v", moduleTitle, err)
			skipped++
			continue
		}

		// Place it at the end of its section
		if _, err := svc.AddActivityModuleToSection(importer, module.ID, sectionID, nil, nil); err != nil {
			log.Printf("Error placing module %q in section %q: %v", moduleTitle, sectionTitle, err)
			skipped++
			continue
		}
		placed++
	}

	log.Printf("=== Import Complete ===")
	log.Printf("Courses: %d", len(courses))
	log.Printf("Sections: %d", len(sections))
	log.Printf("Modules placed: %d", placed)
	log.Printf("Skipped: %d", skipped)
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseInt converts a string to int, returning 0 on failure
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
