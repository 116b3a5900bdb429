package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"

	"hexaboard_backend/internal/model"
	"hexaboard_backend/internal/service"
	"hexaboard_backend/internal/util"
	"hexaboard_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CourseController struct {
	CourseService *service.CourseService
	Storage       service.StorageProvider
}

func NewCourseController(courseService *service.CourseService, storage service.StorageProvider) *CourseController {
	return &CourseController{CourseService: courseService, Storage: storage}
}

// lectureMeta is the per-lecture metadata part of the multipart create form.
type lectureMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var allowedVideoTypes = []string{"video/mp4", "video/webm", "video/quicktime"}
var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// AssignCourse godoc
// @Summary Create and assign a course
// @Description Uploads lecture videos and an optional thumbnail, then assigns the course to one fresher or a whole department
// @Tags courses
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   title formData string true "Course title"
// @Param   description formData string false "Course description"
// @Param   instructor formData string false "Instructor name"
// @Param   mode formData string true "Assignment mode (individual, department)" Enums(individual, department)
// @Param   targetId formData string true "Fresher ID or department ID"
// @Param   lectures formData string true "JSON array of lecture metadata, in video order"
// @Param   thumbnail formData file false "Thumbnail image"
// @Param   videos formData file true "One video per lecture, in lecture order"
// @Success 201 {object} util.Response{data=service.AssignResult} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 404 {object} util.Response "Target not found"
// @Router /api/admin/courses [post]
func (c *CourseController) AssignCourse(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var metas []lectureMeta
	if err := json.Unmarshal([]byte(ctx.PostForm("lectures")), &metas); err != nil {
		util.BadRequest(ctx, "lectures must be a JSON array")
		return
	}

	videos := form.File["videos"]
	if len(videos) != len(metas) {
		util.BadRequest(ctx, fmt.Sprintf("got %d videos for %d lectures", len(videos), len(metas)))
		return
	}

	draft := &service.CourseDraft{
		Title:       ctx.PostForm("title"),
		Description: ctx.PostForm("description"),
		Instructor:  ctx.PostForm("instructor"),
	}

	if thumbs := form.File["thumbnail"]; len(thumbs) > 0 {
		url, err := c.uploadFile(ctx, thumbs[0], "thumbnails", allowedImageTypes)
		if err != nil {
			util.BadRequest(ctx, "thumbnail upload failed: "+err.Error())
			return
		}
		draft.ThumbnailURL = url
	}

	for i, video := range videos {
		url, duration, err := c.uploadVideo(ctx, video)
		if err != nil {
			util.BadRequest(ctx, fmt.Sprintf("video %d upload failed: %s", i, err.Error()))
			return
		}
		draft.Lectures = append(draft.Lectures, model.Lecture{
			Title:       metas[i].Title,
			Description: metas[i].Description,
			VideoURL:    url,
			Duration:    duration,
		})
	}

	target := service.AssignTarget{
		Mode: service.AssignMode(ctx.PostForm("mode")),
		ID:   ctx.PostForm("targetId"),
	}

	result, err := c.CourseService.Assign(draft, target)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound), errors.Is(err, util.ErrNoFreshersInDept):
			util.Error(ctx, 404, err.Error())
		case errors.Is(err, util.ErrNoLectures):
			util.BadRequest(ctx, err.Error())
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, result)
}

func (c *CourseController) uploadFile(ctx *gin.Context, fh *multipart.FileHeader, prefix string, allowed []string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	mimeType, err := util.ValidateMimeType(f, allowed)
	if err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	objectName := service.ObjectName(prefix, fh.Filename)
	return c.Storage.Upload(ctx.Request.Context(), f, fh.Size, objectName, mimeType)
}

// uploadVideo stages the upload on disk so the duration can be probed before
// the file is handed to the storage backend.
func (c *CourseController) uploadVideo(ctx *gin.Context, fh *multipart.FileHeader) (string, int, error) {
	f, err := fh.Open()
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	mimeType, err := util.ValidateMimeType(f, allowedVideoTypes)
	if err != nil {
		return "", 0, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", 0, err
	}

	tmp, err := os.CreateTemp("", "lecture-*.video")
	if err != nil {
		return "", 0, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, f); err != nil {
		return "", 0, err
	}

	duration, err := util.ProbeVideoDuration(tmp.Name())
	if err != nil {
		logger.Log.Warn("failed to probe video duration",
			zap.String("file", fh.Filename), zap.Error(err))
		duration = 0
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", 0, err
	}

	objectName := service.ObjectName("lectures", fh.Filename)
	url, err := c.Storage.Upload(ctx.Request.Context(), tmp, fh.Size, objectName, mimeType)
	if err != nil {
		return "", 0, err
	}
	return url, duration, nil
}

// ListForFresher godoc
// @Summary List a fresher's courses
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Fresher ID"
// @Success 200 {object} util.Response{data=[]model.CourseAssignment} "Success"
// @Router /api/freshers/{id}/courses [get]
func (c *CourseController) ListForFresher(ctx *gin.Context) {
	courses, err := c.CourseService.CoursesForFresher(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Get godoc
// @Summary Get one course assignment
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Fresher ID"
// @Param   courseId path string true "Course ID"
// @Success 200 {object} util.Response{data=model.CourseAssignment} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/freshers/{id}/courses/{courseId} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	course, err := c.CourseService.Get(ctx.Param("id"), ctx.Param("courseId"))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, course)
}

// swagger:model AdvanceProgressRequest
type AdvanceProgressRequest struct {
	LectureIndex *int `json:"lectureIndex" binding:"required"`
}

// AdvanceProgress godoc
// @Summary Advance lecture position
// @Description Moves the fresher's position within a course and recomputes progress
// @Tags courses
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Fresher ID"
// @Param   courseId path string true "Course ID"
// @Param   body body AdvanceProgressRequest true "New 0-based lecture index"
// @Success 200 {object} util.Response{data=service.ProgressState} "Success"
// @Failure 400 {object} util.Response "Index out of range"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/freshers/{id}/courses/{courseId}/progress [patch]
func (c *CourseController) AdvanceProgress(ctx *gin.Context) {
	var req AdvanceProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	state, err := c.CourseService.AdvanceLecture(ctx.Param("id"), ctx.Param("courseId"), *req.LectureIndex)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrLectureOutOfRange):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, state)
}

// Finish godoc
// @Summary Finish a course
// @Description Marks the course complete and unlocks its assessment task. Idempotent.
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Fresher ID"
// @Param   courseId path string true "Course ID"
// @Success 200 {object} util.Response{data=service.ProgressState} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/freshers/{id}/courses/{courseId}/finish [post]
func (c *CourseController) Finish(ctx *gin.Context) {
	state, err := c.CourseService.FinishCourse(ctx.Param("id"), ctx.Param("courseId"))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, state)
}

// Delete godoc
// @Summary Delete a course assignment
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Fresher ID"
// @Param   courseId path string true "Course ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/admin/freshers/{id}/courses/{courseId} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	if err := c.CourseService.Delete(ctx.Param("id"), ctx.Param("courseId")); err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// Tasks godoc
// @Summary List a fresher's assessment tasks
// @Tags courses
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Fresher ID"
// @Success 200 {object} util.Response{data=[]model.AssignmentTask} "Success"
// @Router /api/freshers/{id}/tasks [get]
func (c *CourseController) Tasks(ctx *gin.Context) {
	tasks, err := c.CourseService.TasksForFresher(ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}
