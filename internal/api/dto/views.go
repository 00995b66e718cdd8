package dto

type CheckpointResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type LotResponse struct {
	Name            string   `json:"name"`
	Status          string   `json:"status"`
	Volume          float64  `json:"volume"`
	Location        string   `json:"location"`
	StartCheckpoint string   `json:"startCheckpoint"`
	EndCheckpoint   string   `json:"endCheckpoint"`
	Tractor         []string `json:"tractor"`
}

type TractorResponse struct {
	Name            string   `json:"name"`
	Status          string   `json:"status"`
	CurrentCapacity float64  `json:"currentCapacity"`
	TotalCapacity   float64  `json:"totalCapacity"`
	Location        string   `json:"location"`
	Route           []string `json:"route"`
}

type RouteResponse struct {
	Name  string   `json:"name"`
	Route []string `json:"route"`
}
