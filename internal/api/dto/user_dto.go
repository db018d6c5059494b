package dto

type RegisterClientRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterLabourRequest struct {
	Name         string           `json:"name"`
	Phone        string           `json:"phone"`
	Email        string           `json:"email"`
	Password     string           `json:"password"`
	Skills       []string         `json:"skills"`
	StationRange *StationRangeDTO `json:"stationRange"`
	ExpectedRate float64          `json:"expectedRate"`
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UserDTO struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email,omitempty"`
	Role             string           `json:"role"`
	ReliabilityScore int              `json:"reliabilityScore"`
	StationRange     *StationRangeDTO `json:"stationRange,omitempty"`
	Skills           []string         `json:"skills,omitempty"`
	ExpectedRate     float64          `json:"expectedRate,omitempty"`
	ProfilePhoto     string           `json:"profilePhoto,omitempty"`
	CreatedAt        string           `json:"createdAt"`
}

type RatingsResponse struct {
	Ratings []RatingDTO `json:"ratings"`
}
