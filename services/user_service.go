package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Matt9117/Intolerancies/config"
	"github.com/Matt9117/Intolerancies/models"
	"github.com/Matt9117/Intolerancies/utils"
)

type ProfileInput struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ProfilePicture string `json:"profile_picture"`
	Onboarded      bool   `json:"onboarded"`
}

func GetUserProfile(email string) (map[string]interface{}, error) {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return nil, errors.New("user not found or disabled")
	}

	return map[string]interface{}{
		"id":              user.ID,
		"user_id":         user.UserID,
		"email":           user.Email,
		"first_name":      user.FirstName,
		"last_name":       user.LastName,
		"intolerances":    user.IntoleranceList(),
		"profile_picture": user.ProfilePicture,
		"mfa_enabled":     user.MFAEnabled,
		"onboarded":       user.Onboarded,
	}, nil
}

func UpdateUserProfile(email string, input ProfileInput) error {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return errors.New("user not found or disabled")
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.ProfilePicture != "" {
		url, err := utils.UploadBase64ImageToS3(input.ProfilePicture, user.Email)
		if err != nil {
			return fmt.Errorf("failed to upload image: %v", err)
		}
		user.ProfilePicture = url
	}

	user.Onboarded = input.Onboarded

	return config.DB.Save(&user).Error
}

// UpdateUserIntolerances replaces the user's selected categories. Unknown
// keys are rejected so the stored set is always a subset of the fixed
// enumeration.
func UpdateUserIntolerances(email string, keys []string) ([]string, error) {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return nil, errors.New("user not found or disabled")
	}

	seen := make(map[string]bool, len(keys))
	clean := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		if !utils.IsValidCategory(k) {
			return nil, fmt.Errorf("unknown intolerance category: %s", k)
		}
		seen[k] = true
		clean = append(clean, k)
	}

	user.Intolerances = strings.Join(clean, ",")
	if err := config.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	return clean, nil
}

func FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	result := config.DB.First(&user, "email = ?", email)
	if result.Error != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

func DeleteUser(email string) error {
	var user models.User
	result := config.DB.First(&user, "email = ?", email)
	if result.Error != nil {
		return result.Error
	}
	user.Disabled = true
	return config.DB.Save(&user).Error
}

func CompleteUserOnboarding(
	email string,
	intolerances []string,
	profilePictureBase64 string,
	mfaEnabled bool,
) error {
	var user models.User
	if err := config.DB.
		Where("email = ? AND disabled = ?", email, false).
		First(&user).Error; err != nil {
		return errors.New("user not found or disabled")
	}

	if _, err := UpdateUserIntolerances(email, intolerances); err != nil {
		return err
	}
	// re-read so the intolerance update is not lost by the Save below
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return err
	}

	user.MFAEnabled = mfaEnabled

	if profilePictureBase64 != "" {
		url, err := utils.UploadBase64ImageToS3(profilePictureBase64, "onboarding/"+user.Email)
		if err != nil {
			return fmt.Errorf("failed to upload profile picture: %w", err)
		}
		user.ProfilePicture = url
	}

	user.Onboarded = true

	return config.DB.Save(&user).Error
}
