package auth

import "errors"

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (dto RefreshDTO) Validate() error {
	if dto.RefreshToken == "" {
		return errors.New("refresh_token is required")
	}
	return nil
}

type PermissionsUpdateDTO struct {
	UserID      int64                             `json:"user_id"`
	Permissions map[string]map[string]ActionFlags `json:"permissions"`
}

type ActionFlags struct {
	View   bool `json:"view"`
	Edit   bool `json:"edit"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}
