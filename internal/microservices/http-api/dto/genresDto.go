package dto

import "bookhub/internal/recommender"

type GenreResponse struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

func GenreFromCode(g recommender.Genre) GenreResponse {
	return GenreResponse{
		Code:  string(g),
		Label: g.Label(),
	}
}
