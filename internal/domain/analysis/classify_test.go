package analysis

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyHighPriorityHazardIsDanger(t *testing.T) {
	items := []DetectedItem{
		{Name: "Oil Spill", Category: CategoryHazard, Priority: PriorityHigh},
	}
	score, _ := Classify(items, "")
	require.Equal(t, ScoreDanger, score)
}

func TestClassifyAnyHazardIsAtLeastCaution(t *testing.T) {
	items := []DetectedItem{
		{Name: "Loose Cable", Category: CategoryHazard, Priority: PriorityLow},
	}
	score, _ := Classify(items, "")
	require.Equal(t, ScoreCaution, score)
}

func TestClassifyMediumPriorityEquipmentIsCaution(t *testing.T) {
	items := []DetectedItem{
		{Name: "Forklift", Category: CategoryEquipment, Priority: PriorityMedium},
	}
	score, _ := Classify(items, "")
	require.Equal(t, ScoreCaution, score)
}

func TestClassifyLowPriorityEquipmentIsSafe(t *testing.T) {
	items := []DetectedItem{
		{Name: "Pallet Jack", Category: CategoryEquipment, Priority: PriorityLow},
	}
	score, _ := Classify(items, "")
	require.Equal(t, ScoreSafe, score)
}

func TestClassifyNoItemsIsSafe(t *testing.T) {
	score, normalized := Classify(nil, "")
	require.Equal(t, ScoreSafe, score)
	require.Empty(t, normalized)
}

func TestClassifyMissingPriorityDefaultsToLow(t *testing.T) {
	items := []DetectedItem{
		{Name: "Hand Truck", Category: CategoryEquipment},
	}
	score, normalized := Classify(items, "")
	require.Equal(t, ScoreSafe, score)
	require.Equal(t, PriorityLow, normalized[0].Priority)
}

func TestClassifyMissingPriorityHazardStillCounts(t *testing.T) {
	items := []DetectedItem{
		{Name: "Blocked Exit", Category: CategoryHazard},
	}
	score, normalized := Classify(items, "")
	require.Equal(t, ScoreCaution, score)
	require.Equal(t, PriorityLow, normalized[0].Priority)
}

func TestClassifyDerivedScoreWinsOverModelScore(t *testing.T) {
	items := []DetectedItem{
		{Name: "Chemical Spill", Category: CategoryHazard, Priority: PriorityHigh},
	}
	score, _ := Classify(items, ScoreSafe)
	require.Equal(t, ScoreDanger, score)
}

func TestClassifyDoesNotMutateInput(t *testing.T) {
	items := []DetectedItem{
		{Name: "Hand Truck", Category: CategoryEquipment},
	}
	Classify(items, "")
	require.Equal(t, Priority(""), items[0].Priority)
}

func TestClassifyIsDeterministic(t *testing.T) {
	items := []DetectedItem{
		{Name: "Forklift", Category: CategoryEquipment, Priority: PriorityMedium},
		{Name: "Oil Spill", Category: CategoryHazard},
	}
	score1, norm1 := Classify(items, "")
	score2, norm2 := Classify(items, ScoreDanger)
	require.Equal(t, score1, score2)
	require.Equal(t, norm1, norm2)
}

func TestClassifyPrecedenceAcrossMixedItems(t *testing.T) {
	items := []DetectedItem{
		{Name: "Pallet Jack", Category: CategoryEquipment, Priority: PriorityLow},
		{Name: "Wet Floor", Category: CategoryHazard, Priority: PriorityMedium},
		{Name: "Forklift", Category: CategoryEquipment, Priority: PriorityHigh},
	}
	score, _ := Classify(items, "")
	require.Equal(t, ScoreCaution, score)
}
