package controllers

import (
	"net/http"

	"organizo/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	Svc *services.Services
}

func (uc *UserController) GetUsers(c *gin.Context) {
	users, err := uc.Svc.ListUsers(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (uc *UserController) CreateUser(c *gin.Context) {
	var input services.UserInput
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := uc.Svc.CreateUser(currentUser(c), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var patch services.UserPatch
	if err := c.BindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := uc.Svc.UpdateUser(currentUser(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := uc.Svc.DeleteUser(currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func (uc *UserController) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// UpdateProfile is the self-service path. Admin ranks see their changes
// applied immediately; regular users get a pending change request back.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	var fields map[string]string
	if err := c.BindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := uc.Svc.UpdateOwnProfile(currentUser(c), fields)
	if err != nil {
		respondError(c, err)
		return
	}

	if req == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"message": "Profile update submitted for approval",
		"request": req,
	})
}

func (uc *UserController) PendingApprovals(c *gin.Context) {
	reqs, err := uc.Svc.ListPendingProfileChanges(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (uc *UserController) ApproveProfile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := uc.Svc.ApproveProfileChange(currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile changes approved"})
}

func (uc *UserController) RejectProfile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.BindJSON(&input)

	if err := uc.Svc.DenyProfileChange(currentUser(c), id, input.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile changes rejected"})
}
