package server

import "github.com/samkirk/gca-bridge/internal/registry"

// openAIModelList is the standard OpenAI `GET /v1/models` envelope.
type openAIModelList struct {
	Object string           `json:"object"`
	Data   []openAIModelRow `json:"data"`
}

type openAIModelRow struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

func modelsList() openAIModelList {
	ids := registry.ListCanonicalModels()
	rows := make([]openAIModelRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, openAIModelRow{ID: id, Object: "model", OwnedBy: "google"})
	}
	return openAIModelList{Object: "list", Data: rows}
}

// anthropicModelList is the Anthropic SDK's `GET /v1/models` envelope.
type anthropicModelList struct {
	Data    []anthropicModelRow `json:"data"`
	HasMore bool                `json:"has_more"`
}

type anthropicModelRow struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	DisplayName string `json:"display_name"`
}

func anthropicModelsList() anthropicModelList {
	ids := registry.ListCanonicalModels()
	rows := make([]anthropicModelRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, anthropicModelRow{ID: id, Type: "model", DisplayName: id})
	}
	return anthropicModelList{Data: rows, HasMore: false}
}
