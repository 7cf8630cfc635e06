package handlers

type ErrorResponse struct {
	Error string `json:"error" example:"client id not found"`
}

type StatusResponse struct {
	Status string `json:"status" example:"success"`
}

type ResultResponse struct {
	ClientID         string  `json:"clientId" example:"alice"`
	LatestPrediction *string `json:"latestPrediction" example:"rock"`
}
