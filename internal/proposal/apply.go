package proposal

import (
	"fmt"
	"math"

	"github.com/gyxcit/simdecision/internal/model"
	"github.com/gyxcit/simdecision/internal/store"
)

// Apply replays a proposal's field changes plus the approved structural
// changes through the store's mutation operations. approved holds indices
// into p.OtherChanges; unapproved entries are skipped. The first failure
// aborts the replay and reports what was already applied.
func Apply(st *store.ModelStore, p *Proposal, approved []int) error {
	for i, fc := range p.Changes {
		if err := applyField(st, fc); err != nil {
			return fmt.Errorf("applying change %d: %w", i, err)
		}
	}

	approvedSet := make(map[int]bool, len(approved))
	for _, idx := range approved {
		approvedSet[idx] = true
	}

	for i, ac := range p.OtherChanges {
		if !approvedSet[i] {
			continue
		}
		if err := applyAdditional(st, ac); err != nil {
			return fmt.Errorf("applying otherChange %d (%s): %w", i, ac.Op, err)
		}
	}
	return nil
}

func applyField(st *store.ModelStore, fc FieldChange) error {
	switch fc.Field {
	case "initial":
		return st.UpdateParameter(fc.Path, fc.NewValue)
	case "min":
		v := fc.NewValue
		return st.UpdateComponentParameter(fc.Path, store.ComponentPatch{Min: &v})
	case "max":
		v := fc.NewValue
		return st.UpdateComponentParameter(fc.Path, store.ComponentPatch{Max: &v})
	case "dt":
		v := fc.NewValue
		st.UpdateSimulationConfig(store.SimulationPatch{DT: &v})
		return nil
	case "steps":
		n := int(math.Round(fc.NewValue))
		st.UpdateSimulationConfig(store.SimulationPatch{Steps: &n})
		return nil
	default:
		return fmt.Errorf("unknown field %q", fc.Field)
	}
}

func applyAdditional(st *store.ModelStore, ac AdditionalChange) error {
	switch ac.Op {
	case OpCreateEntity:
		st.CreateEntity(ac.Entity, ac.Description)
	case OpRemoveEntity:
		st.RemoveEntity(ac.Entity)
	case OpAddComponent:
		st.AddComponent(ac.Entity, ac.Name, *ac.Component)
	case OpRemoveComponent:
		st.RemoveComponent(ac.Entity, ac.Name)
	case OpAddInfluence:
		return st.AddInfluence(ac.Path, *ac.Influence)
	case OpRemoveInfluence:
		return st.RemoveInfluence(ac.Path, *ac.Index)
	case OpUpdateInfluence:
		return st.UpdateInfluence(ac.Path, *ac.Index, patchFromSpec(*ac.Influence))
	case OpSetParameter:
		return st.UpdateParameter(ac.Path, *ac.Value)
	}
	return nil
}

// patchFromSpec converts the optional fields of an influence spec into the
// store's partial-update shape. An empty From is treated as unset.
func patchFromSpec(spec model.InfluenceSpec) store.InfluencePatch {
	patch := store.InfluencePatch{
		Coef:     spec.Coef,
		Kind:     spec.Kind,
		Function: spec.Function,
		Enabled:  spec.Enabled,
	}
	if spec.From != "" {
		from := spec.From
		patch.From = &from
	}
	return patch
}
