package config

import "primeduel/internal/engine"

// Presets lists the rule variants rooms are bound to at startup, one
// room per row. Edit here to add variants.
func Presets() []engine.RulePreset {
	return []engine.RulePreset{
		{Key: "std-5-1", Label: "Standard: 5 cards / penalty 1", DeckVariant: engine.DeckStandard, HandSize: 5, Penalty: engine.PenaltyAlwaysOne},
		{Key: "std-7-1", Label: "Standard: 7 cards / penalty 1", DeckVariant: engine.DeckStandard, HandSize: 7, Penalty: engine.PenaltyAlwaysOne},
		{Key: "std-11-n", Label: "Standard: 11 cards / same as played", DeckVariant: engine.DeckStandard, HandSize: 11, Penalty: engine.PenaltySameAsPlayed},
		{Key: "half-5-n", Label: "Even-halved: 5 cards / same as played", DeckVariant: engine.DeckEvenHalved, HandSize: 5, Penalty: engine.PenaltySameAsPlayed},
	}
}
