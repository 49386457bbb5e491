package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/academy-schedule-api/internal/models"
)

func timetableScopeFromPath(c *gin.Context) models.TimetableScope {
	return models.TimetableScope{
		AcademyID:   c.Param("academyId"),
		ProfessorID: c.Param("professorId"),
		PeriodID:    c.Param("periodId"),
	}
}

func courseScopeFromPath(c *gin.Context) models.CourseScope {
	return models.CourseScope{
		TimetableScope: timetableScopeFromPath(c),
		SubjectID:      c.Param("subjectId"),
	}
}
