package controller

import (
	"errors"

	"hexaboard_backend/internal/service"
	"hexaboard_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DepartmentController struct {
	DepartmentService *service.DepartmentService
}

func NewDepartmentController(departmentService *service.DepartmentService) *DepartmentController {
	return &DepartmentController{DepartmentService: departmentService}
}

// List godoc
// @Summary List departments
// @Tags departments
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Department} "Success"
// @Router /api/admin/departments [get]
func (c *DepartmentController) List(ctx *gin.Context) {
	departments, err := c.DepartmentService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, departments)
}

// Get godoc
// @Summary Get one department
// @Tags departments
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Department ID"
// @Success 200 {object} util.Response{data=model.Department} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/admin/departments/{id} [get]
func (c *DepartmentController) Get(ctx *gin.Context) {
	dept, err := c.DepartmentService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrDepartmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, dept)
}

// swagger:model CreateDepartmentRequest
type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Manager     string `json:"manager"`
	Location    string `json:"location"`
}

// Create godoc
// @Summary Create or fetch a department
// @Description Resolves the department by name, creating it when absent
// @Tags departments
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateDepartmentRequest true "Department details"
// @Success 201 {object} util.Response{data=model.Department} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Router /api/admin/departments [post]
func (c *DepartmentController) Create(ctx *gin.Context) {
	var req CreateDepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	dept, err := c.DepartmentService.ResolveWithDetails(req.Name, req.Description, req.Manager, req.Location)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, dept)
}

// Delete godoc
// @Summary Delete a department
// @Tags departments
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Department ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/admin/departments/{id} [delete]
func (c *DepartmentController) Delete(ctx *gin.Context) {
	if err := c.DepartmentService.Delete(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrDepartmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": true})
}

// RemoveFresher godoc
// @Summary Remove a fresher from a department
// @Description Clears the fresher's department link and decrements the member count
// @Tags departments
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "Department ID"
// @Param   fresherId path string true "Fresher ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/admin/departments/{id}/freshers/{fresherId} [delete]
func (c *DepartmentController) RemoveFresher(ctx *gin.Context) {
	if err := c.DepartmentService.RemoveFresher(ctx.Param("id"), ctx.Param("fresherId")); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"removed": true})
}

// AutoAssign godoc
// @Summary Auto-assign unlinked freshers to departments
// @Description Links every fresher who names a department but is not yet a member, creating departments as needed
// @Tags departments
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "Success"
// @Router /api/admin/departments/auto-assign [post]
func (c *DepartmentController) AutoAssign(ctx *gin.Context) {
	assigned, err := c.DepartmentService.AutoAssign()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"assigned": assigned})
}
