package handler

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dtroode/pinmap-server/internal/model"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

func (registerRequest) bindingMessage(fe validator.FieldError) string {
	switch {
	case fe.Tag() == "required":
		return "email and password are required"
	case fe.Field() == "Email":
		return "invalid email format"
	case fe.Tag() == "min":
		return fmt.Sprintf("password must be at least %s characters", fe.Param())
	default:
		return fmt.Sprintf("password must be at most %s characters", fe.Param())
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (loginRequest) bindingMessage(validator.FieldError) string {
	return "email and password are required"
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type ownerResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type pinResponse struct {
	ID          uuid.UUID     `json:"id"`
	Owner       ownerResponse `json:"owner"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Latitude    float64       `json:"latitude"`
	Longitude   float64       `json:"longitude"`
	ImageURL    string        `json:"imageUrl"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// coordinate accepts a JSON number or a numeric string, as sent by HTML forms.
type coordinate float64

func (c *coordinate) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case float64:
		*c = coordinate(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q", v)
		}
		*c = coordinate(f)
	default:
		return fmt.Errorf("invalid coordinate %s", data)
	}
	return nil
}

type createPinRequest struct {
	Title       string      `json:"title" binding:"required"`
	Description string      `json:"description" binding:"required"`
	Latitude    *coordinate `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude   *coordinate `json:"longitude" binding:"required,min=-180,max=180"`
	ImageURL    string      `json:"imageUrl" binding:"required"`
}

func (createPinRequest) bindingMessage(fe validator.FieldError) string {
	switch {
	case fe.Tag() == "required":
		return "All fields are required"
	case fe.Field() == "Latitude":
		return "latitude must be between -90 and 90"
	default:
		return "longitude must be between -180 and 180"
	}
}

type updatePinRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toSessionResponse(s model.Session) sessionResponse {
	return sessionResponse{Token: s.Token, User: toUserResponse(s.User)}
}

func toPinResponse(p model.Pin) pinResponse {
	return pinResponse{
		ID:          p.ID,
		Owner:       ownerResponse{ID: p.OwnerID, Email: p.OwnerEmail},
		Title:       p.Title,
		Description: p.Description,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPinResponses(pins []model.Pin) []pinResponse {
	out := make([]pinResponse, 0, len(pins))
	for _, p := range pins {
		out = append(out, toPinResponse(p))
	}
	return out
}

func (c *coordinate) float() *float64 {
	if c == nil {
		return nil
	}
	f := float64(*c)
	return &f
}
