package dto

import "github.com/teamqa/teamqa-api/internal/models"

// UserDTO is the public representation of a user.
type UserDTO struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	JobTitle  string `json:"job_title,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ToUserDTO converts a user to its public representation
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		JobTitle:  user.JobTitle,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL,
	}
}
