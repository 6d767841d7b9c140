package types

import (
	"fmt"
	"slices"
)

// Stage names, in growing order. The order is informational only: any stage
// may be recorded at any time.
const (
	StagePlanted     = "planted"
	StageGermination = "germination"
	StageSeedling    = "seedling"
	StageCutting     = "cutting"
	StageVegetation  = "vegetation"
	StageBudding     = "budding"
	StageFlowering   = "flowering"
	StageRipening    = "ripening"
	StageDrying      = "drying"
	StageCuring      = "curing"
	StageHarvested   = "harvested"
)

var stages = []string{
	StagePlanted,
	StageGermination,
	StageSeedling,
	StageCutting,
	StageVegetation,
	StageBudding,
	StageFlowering,
	StageRipening,
	StageDrying,
	StageCuring,
	StageHarvested,
}

// Stages returns the full stage vocabulary in order.
func Stages() []string {
	return slices.Clone(stages)
}

// SettableStages returns the stages a user may record with a stage event.
// "planted" is implied by the info section and never logged explicitly.
func SettableStages() []string {
	return slices.Clone(stages[1:])
}

// IsStage reports whether name belongs to the stage vocabulary.
func IsStage(name string) bool {
	return slices.Contains(stages, name)
}

// ValidateSettableStage returns ErrUnknownStage unless name can be recorded
// as a stage event.
func ValidateSettableStage(name string) error {
	if name == StagePlanted || !IsStage(name) {
		return fmt.Errorf("%w %q", ErrUnknownStage, name)
	}
	return nil
}
