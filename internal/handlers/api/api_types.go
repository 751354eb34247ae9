package api

import (
	"time"

	"github.com/hdang/siteadmin/model"
)

// Google JSON API style response envelope.
type APIResponse struct {
	APIVersion string        `json:"apiVersion"`
	Data       any           `json:"data,omitempty"`
	Error      *APIErrorInfo `json:"error,omitempty"`
}

type APIErrorInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewDataResponse(data any) APIResponse {
	return APIResponse{
		APIVersion: "1.0",
		Data:       data,
	}
}

type UserResponse struct {
	UserID    uint       `json:"userId"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role,omitempty"`
	IsActive  bool       `json:"isActive"`
	IsLocked  bool       `json:"isLocked"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func NewUserResponse(user *model.User) UserResponse {
	resp := UserResponse{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsActive:  user.IsActive,
		IsLocked:  user.IsLocked,
		LastLogin: user.LastLogin,
	}
	if user.Role != nil {
		resp.Role = user.Role.Name
	}
	return resp
}

type SessionResponse struct {
	SessionID    uint      `json:"sessionId"`
	IPAddress    string    `json:"ipAddress"`
	UserAgent    string    `json:"userAgent"`
	LastActivity time.Time `json:"lastActivity"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Current      bool      `json:"current"`
}

type RoleResponse struct {
	RoleID      uint     `json:"roleId"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	IsSystem    bool     `json:"isSystem"`
	IsActive    bool     `json:"isActive"`
	Permissions []string `json:"permissions"`
}

func NewRoleResponse(role *model.Role) RoleResponse {
	permissions := make([]string, 0, len(role.Permissions))
	for _, p := range role.Permissions {
		permissions = append(permissions, p.Name)
	}
	return RoleResponse{
		RoleID:      role.ID,
		Name:        role.Name,
		Description: role.Description,
		IsSystem:    role.IsSystem,
		IsActive:    role.IsActive,
		Permissions: permissions,
	}
}
