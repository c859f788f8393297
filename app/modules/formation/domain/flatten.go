package formationdomain

import (
	sharedtypes "github.com/Harbor-City-Volleyball/courtplan/app/shared/types"
)

// StepRole says how a formation step relates to the sequence item that
// produced it.
type StepRole string

const (
	RolePosition      StepRole = "position"
	RoleScenarioStart StepRole = "scenario-start"
	RoleScenarioEnd   StepRole = "scenario-end"
)

// Step is one concrete position on the flattened timeline, with provenance
// back to the sequence item it came from. Both steps of a scenario item
// carry the same ItemIndex so the timeline UI can highlight them together.
type Step struct {
	PositionID string   `json:"positionId"`
	ItemIndex  int      `json:"itemIndex"`
	Role       StepRole `json:"role"`
	ScenarioID string   `json:"scenarioId,omitempty"`
}

// Flatten turns a sequence's ordered item list into a linear list of
// formation steps. A position item yields one step; a scenario item yields
// its start then its end. A scenario reference that no longer resolves
// contributes zero steps. The output depends only on the inputs.
func Flatten(seq sharedtypes.Sequence, scenarios []sharedtypes.Scenario) []Step {
	byID := make(map[string]sharedtypes.Scenario, len(scenarios))
	for _, sc := range scenarios {
		byID[sc.ID] = sc
	}

	steps := make([]Step, 0, len(seq.Items))
	for i, item := range seq.Items {
		switch item.Type {
		case sharedtypes.ItemTypePosition:
			steps = append(steps, Step{
				PositionID: item.ID,
				ItemIndex:  i,
				Role:       RolePosition,
			})
		case sharedtypes.ItemTypeScenario:
			sc, ok := byID[item.ID]
			if !ok {
				continue
			}
			steps = append(steps,
				Step{
					PositionID: sc.StartPositionID,
					ItemIndex:  i,
					Role:       RoleScenarioStart,
					ScenarioID: sc.ID,
				},
				Step{
					PositionID: sc.EndPositionID,
					ItemIndex:  i,
					Role:       RoleScenarioEnd,
					ScenarioID: sc.ID,
				},
			)
		}
	}
	return steps
}
