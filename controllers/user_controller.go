package controllers

import (
	"net/http"

	"github.com/Matt9117/Intolerancies/services"
	"github.com/Matt9117/Intolerancies/utils"

	"github.com/gin-gonic/gin"
)

func GetProfile(c *gin.Context) {
	email := c.GetString("email")
	profile, err := services.GetUserProfile(email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func UpdateProfile(c *gin.Context) {
	email := c.GetString("email")
	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.UpdateUserProfile(email, input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated successfully"})
}

type intolerancesInput struct {
	Intolerances []string `json:"intolerances"`
}

// PUT /user/intolerances replaces the selected categories wholesale; a
// toggle in the UI sends the full new set.
func UpdateIntolerances(c *gin.Context) {
	email := c.GetString("email")
	var input intolerancesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := services.UpdateUserIntolerances(email, input.Intolerances)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"intolerances": saved})
}

// GET /categories lists the fixed enumeration the UI renders as toggles.
func ListCategories(c *gin.Context) {
	out := make([]gin.H, 0, len(utils.Categories))
	for _, cat := range utils.Categories {
		out = append(out, gin.H{"key": cat.Key, "label": cat.Label})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

type onboardingInput struct {
	Intolerances   []string `json:"intolerances"`
	ProfilePicture string   `json:"profile_picture"`
	MFAEnabled     bool     `json:"mfa_enabled"`
}

func CompleteOnboarding(c *gin.Context) {
	email := c.GetString("email")
	var input onboardingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.CompleteUserOnboarding(email, input.Intolerances, input.ProfilePicture, input.MFAEnabled); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "onboarding complete"})
}

func DeleteAccount(c *gin.Context) {
	email := c.GetString("email")
	if err := services.DeleteUser(email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account disabled"})
}
