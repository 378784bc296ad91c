package handlers

import (
	"context"
	"net/http"

	"taskclinic/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type DoctorService interface {
	List(ctx context.Context, params models.DoctorParams) ([]models.DoctorProfile, error)
	Get(ctx context.Context, id string) (*models.DoctorProfile, error)
	Create(ctx context.Context, caller models.Caller, input models.DoctorProfileInput) (*models.DoctorProfile, error)
	Update(ctx context.Context, caller models.Caller, id string, patch models.DoctorProfilePatch) (*models.DoctorProfile, error)
	Delete(ctx context.Context, caller models.Caller, id string) error
	AddReview(ctx context.Context, caller models.Caller, id string, input models.ReviewInput) (*models.DoctorProfile, error)
}

type DoctorHandler struct {
	doctorService DoctorService
}

func NewDoctorHandler(doctorService DoctorService) *DoctorHandler {
	return &DoctorHandler{doctorService: doctorService}
}

func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	var params models.DoctorParams
	if !bindQuery(c, &params) {
		return
	}
	profiles, err := h.doctorService.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	profile, err := h.doctorService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *DoctorHandler) CreateProfile(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var input models.DoctorProfileInput
	if !bindJSON(c, &input) {
		return
	}
	profile, err := h.doctorService.Create(c.Request.Context(), caller, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var patch models.DoctorProfilePatch
	if !bindJSON(c, &patch) {
		return
	}
	profile, err := h.doctorService.Update(c.Request.Context(), caller, c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *DoctorHandler) DeleteProfile(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	if err := h.doctorService.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "doctor profile removed"})
}

func (h *DoctorHandler) AddReview(c *gin.Context) {
	caller, ok := currentCaller(c)
	if !ok {
		return
	}
	var input models.ReviewInput
	if !bindJSON(c, &input) {
		return
	}
	profile, err := h.doctorService.AddReview(c.Request.Context(), caller, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}
