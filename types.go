package main

// Request/response DTOs. Keep them minimal and explicit.

// calculateIndicesReq is the body of POST /calculate_indices. Coordinates is a
// list of linear rings of [lon, lat] pairs (GeoJSON polygon coordinates).
type calculateIndicesReq struct {
	Coordinates [][][]float64 `json:"coordinates"`
	Index       string        `json:"index"`
}

type calculateIndicesResp struct {
	URL         string        `json:"url"`
	Coordinates [][][]float64 `json:"coordinates"`
	Index       string        `json:"index"`
}

type errorResp struct {
	Error string `json:"error"`
}

type messageResp struct {
	Message string `json:"message"`
}
