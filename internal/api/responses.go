package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type ErrorDetailResponse struct {
	Error   string   `json:"error" example:"steps incomplete"`
	Missing []string `json:"missing,omitempty" example:"schedule_generation,schedule_view"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
