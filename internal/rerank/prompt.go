package rerank

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/infralens/api/internal/models"
)

// SystemPrompt instructs the model how to rank and what to return.
const SystemPrompt = `You are an ML infrastructure advisor specializing in open-source model selection.
Given a list of candidate models and a user's described use case, you must:
1. Re-rank the models by how well they fit the described use case
2. Rewrite the reasoning for each model to be specific and useful for this exact use case
3. Return ONLY valid JSON, with no markdown and no explanation outside the JSON

Be practical and honest. Mention specific strengths or risks relevant to the use case.`

type promptCandidate struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Provider         string   `json:"provider"`
	Parameters       string   `json:"parameters"`
	MemoryRequired   string   `json:"memoryRequired"`
	Latency          string   `json:"latency"`
	License          string   `json:"license"`
	BaseScore        int      `json:"baseScore"`
	CurrentReasoning string   `json:"currentReasoning"`
	Tradeoffs        []string `json:"tradeoffs"`
}

// BuildUserPrompt renders the use case, constraints and candidates.
func BuildUserPrompt(candidates []models.ModelRecommendation, cfg models.RecommendationConfig) (string, error) {
	list := make([]promptCandidate, 0, len(candidates))
	for _, m := range candidates {
		list = append(list, promptCandidate{
			ID:               m.ID,
			Name:             m.Name,
			Provider:         m.Provider,
			Parameters:       m.Parameters,
			MemoryRequired:   m.MemoryRequired,
			Latency:          m.Latency,
			License:          m.License,
			BaseScore:        m.Score,
			CurrentReasoning: m.Reasoning,
			Tradeoffs:        m.Tradeoffs,
		})
	}
	encoded, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode candidates: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Use case description: %q\n\n", cfg.UseCaseDescription)
	b.WriteString("Additional constraints:\n")
	fmt.Fprintf(&b, "- Task type: %s\n", cfg.TaskType)
	fmt.Fprintf(&b, "- Deployment target: %s\n", cfg.DeploymentTarget)
	fmt.Fprintf(&b, "- Inference framework: %s\n", cfg.InferenceFramework)
	fmt.Fprintf(&b, "- Quantization: %s\n", cfg.Quantization)
	fmt.Fprintf(&b, "- GPU memory: %s\n", cfg.GPUMemory)
	fmt.Fprintf(&b, "- Max latency: %dms\n\n", cfg.MaxLatency)
	b.WriteString("Candidate models to re-rank:\n")
	b.Write(encoded)
	b.WriteString(`

Return a JSON array with one object per model, ordered from best to worst fit for the described use case:
[
  {
    "id": "<model id>",
    "fitScore": <0-100 integer, how well this model fits the described use case>,
    "reasoning": "<2-3 sentence explanation specific to the user's use case, practical and not generic>"
  }
]`)
	return b.String(), nil
}
