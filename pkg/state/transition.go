package state

import (
	"strings"

	"github.com/keeper-games/last-algorithm/pkg/scene"
)

// Transitioner advances game state between scenes. It is the only
// component that writes GameState fields after session creation.
type Transitioner struct {
	catalog *scene.Catalog
}

// NewTransitioner creates a transitioner bound to the given catalog.
func NewTransitioner(catalog *scene.Catalog) *Transitioner {
	return &Transitioner{catalog: catalog}
}

// Transition returns a copy of gs moved to newSceneID. The previous
// scene id is appended to the scene history (unless no scene was set
// yet), a non-empty intent is logged against the previous scene, and
// the derived stage label is recomputed. The input state is never
// modified.
//
// Unknown scene ids are accepted as opaque strings; missing-id fallback
// is the catalog's job at lookup time, not this function's.
func (t *Transitioner) Transition(gs GameState, newSceneID string, intent scene.Intent) GameState {
	next := gs

	prev := gs.CurrentScene
	next.SceneHistory = make([]string, len(gs.SceneHistory), len(gs.SceneHistory)+1)
	copy(next.SceneHistory, gs.SceneHistory)
	if prev != "" {
		next.SceneHistory = append(next.SceneHistory, prev)
	}

	next.Intents = make([]IntentRecord, len(gs.Intents), len(gs.Intents)+1)
	copy(next.Intents, gs.Intents)
	if intent != "" {
		next.Intents = append(next.Intents, IntentRecord{Scene: prev, Intent: intent})
		next.LastIntent = intent
	}

	next.CurrentScene = newSceneID
	next.Stage = t.stageFor(newSceneID, gs.Stage)
	return next
}

// stageFor maps a scene id to its conversation stage. Ids outside the
// known mapping leave the stage unchanged.
func (t *Transitioner) stageFor(sceneID, current string) string {
	switch {
	case sceneID == t.catalog.OpeningID():
		return StageOpening
	case sceneID == t.catalog.DecisionPointID():
		return StageDecisionPoint
	case strings.HasPrefix(sceneID, scene.ResponsePhasePrefix):
		return StageResponsePhase
	default:
		return current
	}
}
